package oddsmath

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidOddsFormat indica odd fora do intervalo válido (americana ou decimal).
	ErrInvalidOddsFormat = errors.New("invalid odds format")
	// ErrInvalidProbability indica probabilidade fora do intervalo aberto (0,1).
	ErrInvalidProbability = errors.New("invalid probability")
)

// AmericanToDecimal converte odds americanas para decimais.
// +150 -> 2.50, -110 -> 1.909...
// Valores estritamente entre -100 e 100 não são odds americanas válidas.
func AmericanToDecimal(american int) (float64, error) {
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("%w: american odds %d must be >= 100 or <= -100", ErrInvalidOddsFormat, american)
	}
	if american >= 100 {
		return 1.0 + float64(american)/100.0, nil
	}
	return 1.0 + 100.0/float64(-american), nil
}

// DecimalToAmerican converte odds decimais para americanas.
// 2.50 -> +150, 1.909 -> -110.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds %.4f must be > 1.0", ErrInvalidOddsFormat, decimal)
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// DecimalToImpliedProbability retorna a probabilidade implícita 1/d.
// 2.00 -> 0.50, 1.50 -> 0.667.
func DecimalToImpliedProbability(decimal float64) (float64, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds %.4f must be > 1.0", ErrInvalidOddsFormat, decimal)
	}
	return 1.0 / decimal, nil
}

// ProbabilityToFairOdds retorna a odd decimal justa 1/p para uma probabilidade.
func ProbabilityToFairOdds(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: probability %.4f must be in (0,1)", ErrInvalidProbability, p)
	}
	return 1.0 / p, nil
}

// CalculateEdge retorna trueProbability - probabilidade implícita da odd.
// Positivo significa que o apostador tem vantagem sobre o preço do bookmaker.
func CalculateEdge(trueProbability, bookmakerDecimalOdds float64) (float64, error) {
	if trueProbability <= 0 || trueProbability >= 1 {
		return 0, fmt.Errorf("%w: probability %.4f must be in (0,1)", ErrInvalidProbability, trueProbability)
	}
	implied, err := DecimalToImpliedProbability(bookmakerDecimalOdds)
	if err != nil {
		return 0, err
	}
	return trueProbability - implied, nil
}

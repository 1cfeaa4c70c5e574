package kelly

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidProbability indica probabilidade fora do intervalo aberto (0,1).
	ErrInvalidProbability = errors.New("invalid probability")
	// ErrInvalidOdds indica odd decimal <= 1.
	ErrInvalidOdds = errors.New("invalid odds")
	// ErrInvalidBankroll indica bankroll não-positivo.
	ErrInvalidBankroll = errors.New("invalid bankroll")
)

// Defaults aplicados quando o campo correspondente de Config é zero.
const (
	DefaultKellyFraction    = 1.0   // full Kelly
	DefaultMaxBetPercentage = 100.0 // sem cap
	DefaultUnitSize         = 10.0  // valor monetário de uma unidade
)

// RiskLevel classifica o percentual de bankroll recomendado.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // < 2%
	RiskMedium RiskLevel = "medium" // 2-5%
	RiskHigh   RiskLevel = "high"   // >= 5%
)

// Config são as entradas do cálculo de stake. Campos opcionais com valor zero
// recebem os defaults acima.
type Config struct {
	TrueProbability float64 // (0,1) exclusivo
	BookmakerOdds   float64 // decimal, > 1
	Bankroll        float64 // > 0

	KellyFraction    float64 // multiplicador fracionário (0 => 1.0)
	MaxBetPercentage float64 // cap do percentual do bankroll (0 => sem cap)
	MinEVThreshold   float64 // EV% mínimo para recomendar (default 0)
	UnitSize         float64 // valor de uma unidade (0 => 10)
}

// Result é a saída do cálculo de stake.
type Result struct {
	IsPositiveEV bool
	EVPercentage float64 // EV por unidade apostada, em %

	FullKelly     float64 // fração Kelly sem cap; pode ser negativa
	AdjustedKelly float64 // após multiplicador fracionário e cap

	RecommendedStake           float64 // em moeda
	RecommendedStakePercentage float64 // % do bankroll
	RecommendedStakeUnits      float64

	RiskLevel RiskLevel
}

// Calculate aplica o critério de Kelly com validação estrita das entradas.
// Não há clamping silencioso: entrada fora do contrato retorna erro tipado.
// Função pura, sem I/O.
func Calculate(cfg Config) (Result, error) {
	if cfg.TrueProbability <= 0 || cfg.TrueProbability >= 1 {
		return Result{}, fmt.Errorf("%w: true probability %.4f must be in (0,1)", ErrInvalidProbability, cfg.TrueProbability)
	}
	if cfg.BookmakerOdds <= 1 {
		return Result{}, fmt.Errorf("%w: bookmaker odds %.4f must be > 1", ErrInvalidOdds, cfg.BookmakerOdds)
	}
	if cfg.Bankroll <= 0 {
		return Result{}, fmt.Errorf("%w: bankroll %.2f must be > 0", ErrInvalidBankroll, cfg.Bankroll)
	}

	fraction := cfg.KellyFraction
	if fraction == 0 {
		fraction = DefaultKellyFraction
	}
	maxPct := cfg.MaxBetPercentage
	if maxPct == 0 {
		maxPct = DefaultMaxBetPercentage
	}
	unitSize := cfg.UnitSize
	if unitSize == 0 {
		unitSize = DefaultUnitSize
	}

	b := cfg.BookmakerOdds - 1.0 // odds líquidas
	p := cfg.TrueProbability
	q := 1.0 - p

	// Fórmula clássica de Kelly: f* = (p*b - q) / b
	fullKelly := (p*b - q) / b
	evPct := (p*b - q) * 100.0
	positiveEV := evPct > 0

	res := Result{
		IsPositiveEV: positiveEV,
		EVPercentage: evPct,
		FullKelly:    fullKelly,
	}

	// Aposta abaixo do edge mínimo configurado nunca é recomendada,
	// mesmo que seja tecnicamente +EV.
	if !positiveEV || evPct < cfg.MinEVThreshold {
		res.RiskLevel = RiskLow
		return res, nil
	}

	adjusted := math.Max(0, fullKelly) * fraction
	stakePct := math.Min(adjusted*100.0, maxPct)

	res.AdjustedKelly = stakePct / 100.0
	res.RecommendedStakePercentage = stakePct
	res.RecommendedStake = cfg.Bankroll * stakePct / 100.0
	res.RecommendedStakeUnits = res.RecommendedStake / unitSize
	res.RiskLevel = riskLevel(stakePct)

	return res, nil
}

// riskLevel classifica o percentual do bankroll: <2% low, 2-5% medium, >=5% high.
func riskLevel(stakePct float64) RiskLevel {
	switch {
	case stakePct >= 5.0:
		return RiskHigh
	case stakePct >= 2.0:
		return RiskMedium
	default:
		return RiskLow
	}
}

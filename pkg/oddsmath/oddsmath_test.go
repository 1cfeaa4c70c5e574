package oddsmath

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-6

func TestAmericanToDecimal(t *testing.T) {
	cases := []struct {
		american int
		want     float64
	}{
		{150, 2.50},
		{100, 2.00},
		{-110, 1.909091},
		{-100, 2.00},
		{250, 3.50},
		{-200, 1.50},
	}
	for _, tc := range cases {
		got, err := AmericanToDecimal(tc.american)
		if err != nil {
			t.Errorf("AmericanToDecimal(%d): %v", tc.american, err)
			continue
		}
		if math.Abs(got-tc.want) > epsilon {
			t.Errorf("AmericanToDecimal(%d) = %v, want %v", tc.american, got, tc.want)
		}
	}
}

func TestAmericanToDecimalInvalid(t *testing.T) {
	for _, american := range []int{0, 50, -50, 99, -99} {
		if _, err := AmericanToDecimal(american); !errors.Is(err, ErrInvalidOddsFormat) {
			t.Errorf("AmericanToDecimal(%d) err = %v, want ErrInvalidOddsFormat", american, err)
		}
	}
}

func TestDecimalToAmerican(t *testing.T) {
	cases := []struct {
		decimal float64
		want    int
	}{
		{2.50, 150},
		{2.00, 100},
		{1.909091, -110},
		{1.50, -200},
		{3.50, 250},
	}
	for _, tc := range cases {
		got, err := DecimalToAmerican(tc.decimal)
		if err != nil {
			t.Errorf("DecimalToAmerican(%v): %v", tc.decimal, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DecimalToAmerican(%v) = %d, want %d", tc.decimal, got, tc.want)
		}
	}

	if _, err := DecimalToAmerican(1.0); !errors.Is(err, ErrInvalidOddsFormat) {
		t.Errorf("DecimalToAmerican(1.0) err = %v, want ErrInvalidOddsFormat", err)
	}
}

func TestAmericanDecimalRoundTrip(t *testing.T) {
	// -100 fica de fora: decimal 2.00 normaliza pra +100 na volta.
	for _, american := range []int{-500, -250, -110, 100, 120, 150, 300, 800} {
		d, err := AmericanToDecimal(american)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d): %v", american, err)
		}
		back, err := DecimalToAmerican(d)
		if err != nil {
			t.Fatalf("DecimalToAmerican(%v): %v", d, err)
		}
		if back != american {
			t.Errorf("round trip %d -> %v -> %d", american, d, back)
		}
	}
}

func TestDecimalToImpliedProbability(t *testing.T) {
	cases := []struct {
		decimal float64
		want    float64
	}{
		{2.00, 0.50},
		{1.50, 0.666667},
		{4.00, 0.25},
	}
	for _, tc := range cases {
		got, err := DecimalToImpliedProbability(tc.decimal)
		if err != nil {
			t.Errorf("DecimalToImpliedProbability(%v): %v", tc.decimal, err)
			continue
		}
		if math.Abs(got-tc.want) > epsilon {
			t.Errorf("DecimalToImpliedProbability(%v) = %v, want %v", tc.decimal, got, tc.want)
		}
	}

	if _, err := DecimalToImpliedProbability(0.99); !errors.Is(err, ErrInvalidOddsFormat) {
		t.Errorf("err = %v, want ErrInvalidOddsFormat", err)
	}
}

func TestProbabilityToFairOdds(t *testing.T) {
	got, err := ProbabilityToFairOdds(0.40)
	if err != nil {
		t.Fatalf("ProbabilityToFairOdds(0.40): %v", err)
	}
	if math.Abs(got-2.5) > epsilon {
		t.Errorf("ProbabilityToFairOdds(0.40) = %v, want 2.5", got)
	}

	for _, p := range []float64{0, 1, -0.1, 1.5} {
		if _, err := ProbabilityToFairOdds(p); !errors.Is(err, ErrInvalidProbability) {
			t.Errorf("ProbabilityToFairOdds(%v) err = %v, want ErrInvalidProbability", p, err)
		}
	}
}

func TestCalculateEdge(t *testing.T) {
	// Probabilidade calibrada 0.55 contra odd 2.00 (implícita 0.50): edge +0.05.
	got, err := CalculateEdge(0.55, 2.00)
	if err != nil {
		t.Fatalf("CalculateEdge: %v", err)
	}
	if math.Abs(got-0.05) > epsilon {
		t.Errorf("CalculateEdge(0.55, 2.00) = %v, want 0.05", got)
	}

	// Lado errado do preço: edge negativo.
	got, err = CalculateEdge(0.45, 2.00)
	if err != nil {
		t.Fatalf("CalculateEdge: %v", err)
	}
	if math.Abs(got+0.05) > epsilon {
		t.Errorf("CalculateEdge(0.45, 2.00) = %v, want -0.05", got)
	}

	if _, err := CalculateEdge(1.2, 2.00); !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("err = %v, want ErrInvalidProbability", err)
	}
	if _, err := CalculateEdge(0.5, 1.0); !errors.Is(err, ErrInvalidOddsFormat) {
		t.Errorf("err = %v, want ErrInvalidOddsFormat", err)
	}
}

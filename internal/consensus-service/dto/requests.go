package dto

import "github.com/radieske/bet-consensus-poc/pkg/contracts/events"

// ConsensusRequest pede a síntese de consenso para previsões já calculadas.
type ConsensusRequest struct {
	MatchID     string                    `json:"match_id"`
	Predictions []events.PredictionResult `json:"predictions"`
}

// KellyRequest são os parâmetros do dimensionamento de stake.
// Campos opcionais zerados assumem os defaults do engine.
type KellyRequest struct {
	TrueProbability  float64 `json:"true_probability"`
	BookmakerOdds    float64 `json:"bookmaker_odds"`
	Bankroll         float64 `json:"bankroll"`
	KellyFraction    float64 `json:"kelly_fraction,omitempty"`
	MaxBetPercentage float64 `json:"max_bet_percentage,omitempty"`
	MinEVThreshold   float64 `json:"min_ev_threshold,omitempty"`
	UnitSize         float64 `json:"unit_size,omitempty"`
}

// ArbitrageRequest são as cotações de vários bookmakers para o mesmo mercado.
type ArbitrageRequest struct {
	Quotes []events.OddsQuote `json:"quotes"`
}

// ScenarioRequest são os atributos da partida para detecção de cenários.
type ScenarioRequest struct {
	DecimalOdds float64  `json:"decimal_odds"`
	Spread      float64  `json:"spread"`
	Live        bool     `json:"live"`
	Tags        []string `json:"tags,omitempty"`
}

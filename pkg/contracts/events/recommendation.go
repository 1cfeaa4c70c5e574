package events

import "time"

// StakeAdvice resume o dimensionamento Kelly da recomendação.
type StakeAdvice struct {
	IsPositiveEV    bool    `json:"is_positive_ev"`
	EVPercentage    float64 `json:"ev_percentage"`
	BookmakerOdds   float64 `json:"bookmaker_odds"`
	StakePercentage float64 `json:"stake_percentage"`
	Stake           float64 `json:"stake"`
	StakeUnits      float64 `json:"stake_units"`
	RiskLevel       string  `json:"risk_level"` // low | medium | high
}

// ArbitrageAdvice resume a checagem de arbitragem entre bookmakers.
type ArbitrageAdvice struct {
	ArbitragePercentage        float64 `json:"arbitrage_percentage"`
	GuaranteedProfitPercentage float64 `json:"guaranteed_profit_percentage"`
	HomeStakePct               float64 `json:"home_stake_pct"`
	AwayStakePct               float64 `json:"away_stake_pct"`
	DrawStakePct               float64 `json:"draw_stake_pct,omitempty"`
	HomeBook                   string  `json:"home_book"`
	AwayBook                   string  `json:"away_book"`
	DrawBook                   string  `json:"draw_book,omitempty"`
}

// ScenarioTag anota a recomendação com um cenário histórico detectado.
type ScenarioTag struct {
	ScenarioID    string   `json:"scenario_id"`
	Name          string   `json:"name"`
	WinRate       float64  `json:"win_rate"`
	ExpectedROI   float64  `json:"expected_roi"`
	KellyFraction float64  `json:"kelly_fraction"`
	Confidence    float64  `json:"confidence"`
	MatchFactors  []string `json:"match_factors"`
}

// SynthesisNote é o comentário qualitativo opcional do endpoint remoto.
// Ausente quando a chamada falhou (falha soft, nunca bloqueia a recomendação).
type SynthesisNote struct {
	FinalPick          Side           `json:"final_pick"`
	AdjustedConfidence float64        `json:"adjusted_confidence"`
	Reasoning          string         `json:"reasoning"`
	BiasesIdentified   []string       `json:"biases_identified"`
	AgreementLevel     AgreementLevel `json:"agreement_level"`
	RiskFlag           string         `json:"risk_flag,omitempty"`
}

// ConfidenceAdjustment registra um ajuste determinístico do ensemble.
type ConfidenceAdjustment struct {
	Reason string  `json:"reason"`
	Delta  float64 `json:"delta"`
}

// Recommendation é o evento final publicado no tópico "recommendations" e
// persistido/cacheado para consulta pela camada de apresentação.
type Recommendation struct {
	ID             string         `json:"id"`
	MatchID        string         `json:"match_id"`
	Pick           Side           `json:"pick"`
	Confidence     float64        `json:"confidence"` // pós-ensemble, 0-100
	BaseConfidence float64        `json:"base_confidence"`
	AgreementLevel AgreementLevel `json:"agreement_level"`
	ProjectedScore ProjectedScore `json:"projected_score"`

	Adjustments []ConfidenceAdjustment `json:"adjustments,omitempty"`
	Stake       *StakeAdvice           `json:"stake,omitempty"`
	Arbitrage   *ArbitrageAdvice       `json:"arbitrage,omitempty"`
	Scenarios   []ScenarioTag          `json:"scenarios,omitempty"`
	Synthesis   *SynthesisNote         `json:"synthesis,omitempty"`

	ComponentPredictions []PredictionResult `json:"component_predictions"`
	CreatedAt            time.Time          `json:"created_at"`
}

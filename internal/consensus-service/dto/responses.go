package dto

// ErrorResponse padroniza erros da API.
// Code carrega o erro tipado do engine ("invalid_probability", ...).
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// KellyResponse é a saída do dimensionamento de stake.
type KellyResponse struct {
	IsPositiveEV               bool    `json:"is_positive_ev"`
	EVPercentage               float64 `json:"ev_percentage"`
	FullKelly                  float64 `json:"full_kelly"`
	AdjustedKelly              float64 `json:"adjusted_kelly"`
	RecommendedStake           float64 `json:"recommended_stake"`
	RecommendedStakePercentage float64 `json:"recommended_stake_percentage"`
	RecommendedStakeUnits      float64 `json:"recommended_stake_units"`
	RiskLevel                  string  `json:"risk_level"`
}

// ArbitrageResponse é a saída da checagem de arbitragem.
type ArbitrageResponse struct {
	ArbitragePercentage        float64 `json:"arbitrage_percentage"`
	GuaranteedProfitPercentage float64 `json:"guaranteed_profit_percentage"`
	HasOpportunity             bool    `json:"has_opportunity"`
	HomeStakePct               float64 `json:"home_stake_pct,omitempty"`
	AwayStakePct               float64 `json:"away_stake_pct,omitempty"`
	DrawStakePct               float64 `json:"draw_stake_pct,omitempty"`
	HomeBook                   string  `json:"home_book,omitempty"`
	AwayBook                   string  `json:"away_book,omitempty"`
	DrawBook                   string  `json:"draw_book,omitempty"`
}

// ScenarioDetectionResponse é um cenário detectado para a partida.
type ScenarioDetectionResponse struct {
	ScenarioID    string   `json:"scenario_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	WinRate       float64  `json:"win_rate"`
	ExpectedROI   float64  `json:"expected_roi"`
	KellyFraction float64  `json:"kelly_fraction"`
	Confidence    float64  `json:"confidence"`
	MatchFactors  []string `json:"match_factors"`
}

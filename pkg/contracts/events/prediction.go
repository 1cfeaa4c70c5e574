package events

import "time"

// Side identifica o lado recomendado de um mercado 1x2.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SideDraw Side = "draw"
)

// ProjectedScore é o placar projetado por um algoritmo (ou pelo consenso).
type ProjectedScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// PredictionResult é a opinião de um algoritmo sobre uma partida.
// Confidence (0-100) e TrueProbability (0-1) devem ser consistentes entre si
// (true_probability ~= confidence/100); os campos não são intercambiáveis.
type PredictionResult struct {
	MatchID         string         `json:"match_id"`
	AlgorithmID     string         `json:"algorithm_id"`
	AlgorithmName   string         `json:"algorithm_name"`
	Recommended     Side           `json:"recommended"`
	Confidence      float64        `json:"confidence"`       // 0-100
	TrueProbability float64        `json:"true_probability"` // (0,1)
	ProjectedScore  ProjectedScore `json:"projected_score"`

	// Pré-calculados pelo algoritmo por conveniência; o engine pode recalcular.
	EVPercentage    float64 `json:"ev_percentage"`
	KellyFraction   float64 `json:"kelly_fraction"`
	KellyStakeUnits float64 `json:"kelly_stake_units"`
}

// MatchContext carrega atributos da partida usados pelo ensemble e pelo
// classificador de cenários.
type MatchContext struct {
	Live       bool     `json:"live"`
	Spread     float64  `json:"spread"` // magnitude da linha, em pontos
	HomeStreak int      `json:"home_streak"`
	AwayStreak int      `json:"away_streak"` // negativo = sequência de derrotas
	Tags       []string `json:"tags"`        // ex: "back_to_back", "rivalry"
}

// PredictionSet é o evento publicado no tópico "prediction_results":
// todas as previsões de uma partida em uma única mensagem.
type PredictionSet struct {
	MatchID     string             `json:"match_id"`
	HomeTeam    string             `json:"home_team"`
	AwayTeam    string             `json:"away_team"`
	Predictions []PredictionResult `json:"predictions"`
	Context     MatchContext       `json:"context"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Source      string             `json:"source"`
	Version     int                `json:"version"`
}

package events

// AgreementLevel classifica quanto peso ficou do lado vencedor do consenso.
type AgreementLevel string

const (
	AgreementUnanimous AgreementLevel = "unanimous" // todos os algoritmos no mesmo lado
	AgreementStrong    AgreementLevel = "strong"    // lado vencedor >= 75% do peso
	AgreementSplit     AgreementLevel = "split"     // 50-75%
	AgreementContested AgreementLevel = "contested" // < 50%, sem maioria real
)

// ConsensusResult é a síntese ponderada das previsões de uma partida.
// Confidence mede a convicção de quem concorda com o lado vencedor;
// AgreementLevel mede quantos concordam. As duas coisas são independentes.
type ConsensusResult struct {
	MatchID        string         `json:"match_id"`
	Recommended    Side           `json:"recommended"`
	Confidence     float64        `json:"confidence"` // 0-100
	ProjectedScore ProjectedScore `json:"projected_score"`
	AgreementLevel AgreementLevel `json:"agreement_level"`

	// Entradas que produziram o resultado, na ordem recebida (auditoria).
	ComponentPredictions []PredictionResult `json:"component_predictions"`
}

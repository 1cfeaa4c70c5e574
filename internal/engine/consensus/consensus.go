package consensus

import (
	"errors"
	"math"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// ErrEmptyPredictionSet indica pedido de consenso sem nenhuma previsão.
var ErrEmptyPredictionSet = errors.New("empty prediction set")

// DefaultAlgorithmWeight é o peso pré-normalização de um algoritmo presente
// nas previsões mas ausente da lista de pesos: o voto conta, mas quase não
// move o consenso.
const DefaultAlgorithmWeight = 0.05

// Engine sintetiza previsões independentes em um único ConsensusResult.
type Engine struct {
	// DefaultWeight substitui DefaultAlgorithmWeight quando > 0.
	DefaultWeight float64
}

// New retorna um Engine com o peso default padrão.
func New() *Engine { return &Engine{} }

func (e *Engine) defaultWeight() float64 {
	if e.DefaultWeight > 0 {
		return e.DefaultWeight
	}
	return DefaultAlgorithmWeight
}

// Synthesize combina as previsões usando os pesos históricos dos algoritmos.
//
// As previsões são recebidas em ordem e essa ordem é preservada em
// ComponentPredictions. Empate exato de votos ponderados resolve para o lado
// visto primeiro na entrada (tie-break determinístico).
func (e *Engine) Synthesize(preds []events.PredictionResult, weights []events.AlgorithmWeight, matchID string) (events.ConsensusResult, error) {
	if len(preds) == 0 {
		return events.ConsensusResult{}, ErrEmptyPredictionSet
	}

	// Peso efetivo por previsão, normalizado para somar 1.
	effective := EffectiveWeights(preds, weights, e.defaultWeight())

	// Votos ponderados por lado, com ordem de primeira aparição para o tie-break.
	votes := make(map[events.Side]float64, 3)
	var sideOrder []events.Side
	for i, p := range preds {
		if _, seen := votes[p.Recommended]; !seen {
			sideOrder = append(sideOrder, p.Recommended)
		}
		votes[p.Recommended] += effective[i]
	}

	winner := sideOrder[0]
	for _, s := range sideOrder[1:] {
		if votes[s] > votes[winner] {
			winner = s
		}
	}

	// Confiança: média ponderada só de quem concorda com o lado vencedor.
	// Dissidentes baixam o agreement, não a confiança.
	var confSum, confWeight float64
	for i, p := range preds {
		if p.Recommended != winner {
			continue
		}
		confSum += p.Confidence * effective[i]
		confWeight += effective[i]
	}
	confidence := 0.0
	if confWeight > 0 {
		confidence = confSum / confWeight
	}

	// Placar projetado: média ponderada de todas as previsões,
	// arredondada a uma casa e depois para inteiro na saída.
	var homeScore, awayScore float64
	for i, p := range preds {
		homeScore += float64(p.ProjectedScore.Home) * effective[i]
		awayScore += float64(p.ProjectedScore.Away) * effective[i]
	}
	homeScore = math.Round(homeScore*10) / 10
	awayScore = math.Round(awayScore*10) / 10

	return events.ConsensusResult{
		MatchID:              matchID,
		Recommended:          winner,
		Confidence:           confidence,
		ProjectedScore:       events.ProjectedScore{Home: int(math.Round(homeScore)), Away: int(math.Round(awayScore))},
		AgreementLevel:       agreementLevel(len(sideOrder), votes[winner]),
		ComponentPredictions: append([]events.PredictionResult(nil), preds...),
	}, nil
}

// EffectiveWeights devolve o peso normalizado (soma 1) de cada previsão, na
// ordem da entrada. Peso cadastrado vale como está — zero explícito é zero,
// não default; só algoritmo ausente da lista recebe defaultWeight. Se todos os
// pesos efetivos forem zero, a distribuição cai para uniforme.
func EffectiveWeights(preds []events.PredictionResult, weights []events.AlgorithmWeight, defaultWeight float64) []float64 {
	byAlgo := make(map[string]float64, len(weights))
	for _, w := range weights {
		if w.Weight >= 0 {
			byAlgo[w.AlgorithmID] = w.Weight
		}
	}

	effective := make([]float64, len(preds))
	total := 0.0
	for i, p := range preds {
		w, ok := byAlgo[p.AlgorithmID]
		if !ok {
			w = defaultWeight
		}
		effective[i] = w
		total += w
	}
	if total == 0 {
		uniform := 1.0 / float64(len(preds))
		for i := range effective {
			effective[i] = uniform
		}
		return effective
	}
	for i := range effective {
		effective[i] /= total
	}
	return effective
}

// agreementLevel deriva o nível de concordância da fatia de peso do lado
// vencedor. Resultado "contested" é sinal, não erro: o pick continua definido.
func agreementLevel(distinctSides int, winnerShare float64) events.AgreementLevel {
	switch {
	case distinctSides == 1:
		return events.AgreementUnanimous
	case winnerShare >= 0.75:
		return events.AgreementStrong
	case winnerShare >= 0.50:
		return events.AgreementSplit
	default:
		return events.AgreementContested
	}
}

// AgreeingTrueProbability retorna a probabilidade calibrada média (ponderada)
// das previsões que concordam com o lado do consenso. Usada pelo
// dimensionamento de stake a jusante.
func AgreeingTrueProbability(c events.ConsensusResult, weights []events.AlgorithmWeight) float64 {
	effective := EffectiveWeights(c.ComponentPredictions, weights, DefaultAlgorithmWeight)

	var sum, totalW float64
	for i, p := range c.ComponentPredictions {
		if p.Recommended != c.Recommended {
			continue
		}
		sum += p.TrueProbability * effective[i]
		totalW += effective[i]
	}
	if totalW == 0 {
		return 0
	}
	return sum / totalW
}

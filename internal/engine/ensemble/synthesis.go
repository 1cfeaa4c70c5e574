package ensemble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// DefaultSynthesisTimeout limita a chamada remota. Sem retries: o comentário
// é suplementar, não decide nada.
const DefaultSynthesisTimeout = 3 * time.Second

// SynthesisClient chama o endpoint remoto de síntese qualitativa.
type SynthesisClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewSynthesisClient cria o cliente com o timeout padrão.
func NewSynthesisClient(baseURL string) *SynthesisClient {
	return &SynthesisClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: DefaultSynthesisTimeout},
	}
}

// synthesisComponent resume uma previsão componente no payload remoto.
type synthesisComponent struct {
	AlgorithmName   string      `json:"algorithmName"`
	Recommended     events.Side `json:"recommended"`
	Confidence      float64     `json:"confidence"`
	EVPercentage    float64     `json:"evPercentage"`
	KellyStakeUnits float64     `json:"kellyStakeUnits"`
}

// synthesisWeight expõe o peso normalizado de cada algoritmo no payload.
type synthesisWeight struct {
	AlgorithmID string  `json:"algorithmId"`
	Weight      float64 `json:"weight"`
}

// synthesisRequest é o contrato JSON do endpoint remoto (camelCase).
type synthesisRequest struct {
	MatchID        string                `json:"matchId"`
	Recommended    events.Side           `json:"recommended"`
	Confidence     float64               `json:"confidence"`
	AgreementLevel events.AgreementLevel `json:"agreementLevel"`
	Components     []synthesisComponent  `json:"components"`
	Weights        []synthesisWeight     `json:"weights"`
	Live           bool                  `json:"live"`
	HomeStreak     int                   `json:"homeStreak"`
	AwayStreak     int                   `json:"awayStreak"`
}

type synthesisResponse struct {
	FinalPick          events.Side           `json:"finalPick"`
	AdjustedConfidence float64               `json:"adjustedConfidence"`
	Reasoning          string                `json:"reasoning"`
	BiasesIdentified   []string              `json:"biasesIdentified"`
	AgreementLevel     events.AgreementLevel `json:"agreementLevel"`
	RiskFlag           string                `json:"riskFlag"`
}

// Synthesize envia o consenso para o endpoint remoto e valida a resposta.
// Qualquer desvio de forma vira erro para o chamador tratar como falha soft.
func (c *SynthesisClient) Synthesize(ctx context.Context, cons events.ConsensusResult, matchCtx events.MatchContext, weights []events.AlgorithmWeight) (*events.SynthesisNote, error) {
	req := synthesisRequest{
		MatchID:        cons.MatchID,
		Recommended:    cons.Recommended,
		Confidence:     cons.Confidence,
		AgreementLevel: cons.AgreementLevel,
		Live:           matchCtx.Live,
		HomeStreak:     matchCtx.HomeStreak,
		AwayStreak:     matchCtx.AwayStreak,
	}
	eff := consensus.EffectiveWeights(cons.ComponentPredictions, weights, consensus.DefaultAlgorithmWeight)
	for i, p := range cons.ComponentPredictions {
		req.Components = append(req.Components, synthesisComponent{
			AlgorithmName:   p.AlgorithmName,
			Recommended:     p.Recommended,
			Confidence:      p.Confidence,
			EVPercentage:    p.EVPercentage,
			KellyStakeUnits: p.KellyStakeUnits,
		})
		req.Weights = append(req.Weights, synthesisWeight{AlgorithmID: p.AlgorithmID, Weight: eff[i]})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/synthesis", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("synthesis http %d", res.StatusCode)
	}

	var out synthesisResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("synthesis decode: %w", err)
	}

	// Validação de forma: resposta fora do contrato é descartada.
	switch out.FinalPick {
	case events.SideHome, events.SideAway, events.SideDraw:
	default:
		return nil, fmt.Errorf("synthesis invalid final pick %q", out.FinalPick)
	}
	if out.AdjustedConfidence < 0 || out.AdjustedConfidence > 100 {
		return nil, fmt.Errorf("synthesis confidence %.2f out of range", out.AdjustedConfidence)
	}

	return &events.SynthesisNote{
		FinalPick:          out.FinalPick,
		AdjustedConfidence: out.AdjustedConfidence,
		Reasoning:          out.Reasoning,
		BiasesIdentified:   out.BiasesIdentified,
		AgreementLevel:     out.AgreementLevel,
		RiskFlag:           out.RiskFlag,
	}, nil
}

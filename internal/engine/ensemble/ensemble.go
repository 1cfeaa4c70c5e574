package ensemble

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// Famílias metodológicas dos algoritmos conhecidos. Algoritmos da mesma
// família produzem votos correlacionados e não contam como opiniões
// independentes.
var algorithmFamilies = map[string]string{
	"momentum":         "momentum",
	"hot_streak":       "momentum",
	"value":            "market_value",
	"line_movement":    "market_value",
	"statistical_edge": "statistical",
	"elo_rating":       "statistical",
	"poisson_score":    "statistical",
}

// Ajustes determinísticos aplicados sobre a confiança do consenso.
const (
	singleFamilyPenalty    = 6.0 // todos os algoritmos na mesma família
	lowDiversityPenalty    = 3.0 // famílias distintas <= metade dos votos
	unanimousBoost         = 2.0
	contestedDampingFactor = 0.5 // fração do caminho até 50 (neutro)
	splitDampingFactor     = 0.2
	coldStreakPenalty      = 4.0 // lado escolhido em sequência longa de derrotas
	coldStreakThreshold    = -4
)

// Result é a saída do refinamento local, sempre determinístico.
type Result struct {
	MatchID            string
	Pick               events.Side
	AgreementLevel     events.AgreementLevel
	BaseConfidence     float64
	AdjustedConfidence float64
	Adjustments        []events.ConfidenceAdjustment
}

// FullResult acrescenta ao resultado local o comentário qualitativo remoto,
// quando disponível. Synthesis == nil significa que a chamada falhou ou não
// foi configurada; a recomendação segue válida sem ele.
type FullResult struct {
	Result
	Synthesis *events.SynthesisNote
}

// Engine aplica a camada de refinamento sobre o consenso.
type Engine struct {
	Log   *zap.Logger
	Synth *SynthesisClient // opcional; nil desabilita a síntese remota
}

// New cria o engine de ensemble. synth pode ser nil.
func New(log *zap.Logger, synth *SynthesisClient) *Engine {
	return &Engine{Log: log, Synth: synth}
}

// familyOf retorna a família metodológica de um algoritmo; algoritmo
// desconhecido conta como família própria (independente).
func familyOf(algorithmID string) string {
	if f, ok := algorithmFamilies[algorithmID]; ok {
		return f
	}
	return algorithmID
}

// RunAdvancedEnsemble aplica os ajustes locais sobre a confiança do consenso:
// penalidade de diversidade, amortecimento por nível de concordância e
// checagem de padrão sequencial. Puro e síncrono; nunca falha.
func (e *Engine) RunAdvancedEnsemble(c events.ConsensusResult, matchCtx events.MatchContext) Result {
	res := Result{
		MatchID:            c.MatchID,
		Pick:               c.Recommended,
		AgreementLevel:     c.AgreementLevel,
		BaseConfidence:     c.Confidence,
		AdjustedConfidence: c.Confidence,
	}

	apply := func(reason string, delta float64) {
		if delta == 0 {
			return
		}
		res.AdjustedConfidence += delta
		res.Adjustments = append(res.Adjustments, events.ConfidenceAdjustment{Reason: reason, Delta: delta})
	}

	// Diversidade: votos correlacionados geram falsa precisão.
	if n := len(c.ComponentPredictions); n >= 2 {
		families := make(map[string]struct{}, n)
		for _, p := range c.ComponentPredictions {
			families[familyOf(p.AlgorithmID)] = struct{}{}
		}
		switch {
		case len(families) == 1:
			apply("single_methodology_family", -singleFamilyPenalty)
		case len(families)*2 <= n:
			apply("correlated_methodologies", -lowDiversityPenalty)
		}
	}

	// Amortecimento por concordância: contested é puxado na direção do neutro
	// (50); unanimous ganha um leve reforço.
	switch c.AgreementLevel {
	case events.AgreementContested:
		apply("contested_consensus", (50.0-res.AdjustedConfidence)*contestedDampingFactor)
	case events.AgreementSplit:
		apply("split_consensus", (50.0-res.AdjustedConfidence)*splitDampingFactor)
	case events.AgreementUnanimous:
		apply("unanimous_consensus", unanimousBoost)
	}

	// Padrão sequencial: lado escolhido vindo de sequência longa de derrotas.
	streak := 0
	switch c.Recommended {
	case events.SideHome:
		streak = matchCtx.HomeStreak
	case events.SideAway:
		streak = matchCtx.AwayStreak
	}
	if streak <= coldStreakThreshold {
		apply("pick_on_cold_streak", -coldStreakPenalty)
	}

	// Confiança permanece em [0,100].
	if res.AdjustedConfidence > 100 {
		res.AdjustedConfidence = 100
	}
	if res.AdjustedConfidence < 0 {
		res.AdjustedConfidence = 0
	}
	return res
}

// RunFullEnsemble calcula o resultado local e, se configurado, pede a síntese
// qualitativa remota. Qualquer falha remota (transporte, timeout, corpo
// malformado) é soft: loga e devolve o resultado local. Nunca retorna erro.
func (e *Engine) RunFullEnsemble(ctx context.Context, c events.ConsensusResult, matchCtx events.MatchContext, weights []events.AlgorithmWeight) FullResult {
	full := FullResult{Result: e.RunAdvancedEnsemble(c, matchCtx)}

	if e.Synth == nil {
		return full
	}

	note, err := e.Synth.Synthesize(ctx, c, matchCtx, weights)
	if err != nil {
		if e.Log != nil {
			e.Log.Warn("remote synthesis failed, using local ensemble only",
				zap.String("match_id", c.MatchID), zap.Error(err))
		}
		return full
	}

	full.Synthesis = note
	return full
}

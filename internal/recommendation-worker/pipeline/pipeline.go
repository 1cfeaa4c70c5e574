package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/engine/arbitrage"
	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	"github.com/radieske/bet-consensus-poc/internal/engine/ensemble"
	"github.com/radieske/bet-consensus-poc/internal/engine/kelly"
	"github.com/radieske/bet-consensus-poc/internal/engine/scenario"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// QuoteSource fornece as cotações correntes de uma partida (cache Redis).
type QuoteSource interface {
	GetQuotes(ctx context.Context, matchID string) ([]events.OddsQuote, error)
}

// Staking parametriza o dimensionamento Kelly aplicado pela pipeline.
type Staking struct {
	Bankroll         float64
	KellyFraction    float64
	MaxBetPercentage float64
	MinEVThreshold   float64
	UnitSize         float64
}

// Pipeline transforma um PredictionSet numa Recommendation completa:
// consenso -> stake Kelly -> checagem de arbitragem -> ensemble -> cenários.
// Falhas de colaboradores externos (pesos, cotações, síntese) degradam e
// nunca abortam a recomendação.
type Pipeline struct {
	Log       *zap.Logger
	Consensus *consensus.Engine
	Weights   *consensus.CachedWeightProvider
	Ensemble  *ensemble.Engine
	Quotes    QuoteSource
	Staking   Staking
}

// Build executa a pipeline para uma partida. Erro só quando não há nada a
// reconciliar (conjunto de previsões vazio).
func (p *Pipeline) Build(ctx context.Context, set events.PredictionSet) (events.Recommendation, error) {
	// Pesos: falha vira peso default pra todo mundo (soft).
	weights, err := p.Weights.Get(ctx)
	if err != nil {
		p.Log.Warn("weight fetch failed, using default weights",
			zap.String("match_id", set.MatchID), zap.Error(err))
		weights = nil
	}

	cons, err := p.Consensus.Synthesize(set.Predictions, weights, set.MatchID)
	if err != nil {
		return events.Recommendation{}, err
	}

	// Cotações: ausência só desliga stake/arbitragem.
	var quotes []events.OddsQuote
	if p.Quotes != nil {
		quotes, err = p.Quotes.GetQuotes(ctx, set.MatchID)
		if err != nil {
			p.Log.Warn("quote lookup failed, skipping staking and arbitrage",
				zap.String("match_id", set.MatchID), zap.Error(err))
			quotes = nil
		}
	}

	pickOdds := bestPriceFor(cons.Recommended, quotes)
	stake := p.stakeAdvice(cons, weights, pickOdds, set.MatchID)
	arb := arbitrageAdvice(quotes)

	full := p.Ensemble.RunFullEnsemble(ctx, cons, set.Context, weights)

	scenarios := scenarioTags(scenario.DetectScenarios(scenario.MatchAttributes{
		DecimalOdds: pickOdds,
		Spread:      set.Context.Spread,
		Live:        set.Context.Live,
		Tags:        set.Context.Tags,
	}))

	return events.Recommendation{
		ID:                   uuid.NewString(),
		MatchID:              set.MatchID,
		Pick:                 cons.Recommended,
		Confidence:           full.AdjustedConfidence,
		BaseConfidence:       cons.Confidence,
		AgreementLevel:       cons.AgreementLevel,
		ProjectedScore:       cons.ProjectedScore,
		Adjustments:          full.Adjustments,
		Stake:                stake,
		Arbitrage:            arb,
		Scenarios:            scenarios,
		Synthesis:            full.Synthesis,
		ComponentPredictions: cons.ComponentPredictions,
		CreatedAt:            time.Now().UTC(),
	}, nil
}

// bestPriceFor devolve o melhor preço disponível para o lado escolhido,
// ou 0 quando não há cotação.
func bestPriceFor(side events.Side, quotes []events.OddsQuote) float64 {
	best := 0.0
	for _, q := range quotes {
		var price float64
		switch side {
		case events.SideHome:
			price = q.HomeWin
		case events.SideAway:
			price = q.AwayWin
		case events.SideDraw:
			price = q.Draw
		}
		if price > best {
			best = price
		}
	}
	return best
}

// stakeAdvice dimensiona a stake pelo critério de Kelly sobre a probabilidade
// calibrada de quem concorda com o pick. Sem preço ou probabilidade válida,
// não há conselho de stake (nil), nunca erro: entrada ruim de colaborador não
// é bug de chamador aqui.
func (p *Pipeline) stakeAdvice(cons events.ConsensusResult, weights []events.AlgorithmWeight, pickOdds float64, matchID string) *events.StakeAdvice {
	if pickOdds <= 1 {
		return nil
	}
	trueProb := consensus.AgreeingTrueProbability(cons, weights)
	if trueProb <= 0 || trueProb >= 1 {
		return nil
	}

	res, err := kelly.Calculate(kelly.Config{
		TrueProbability:  trueProb,
		BookmakerOdds:    pickOdds,
		Bankroll:         p.Staking.Bankroll,
		KellyFraction:    p.Staking.KellyFraction,
		MaxBetPercentage: p.Staking.MaxBetPercentage,
		MinEVThreshold:   p.Staking.MinEVThreshold,
		UnitSize:         p.Staking.UnitSize,
	})
	if err != nil {
		p.Log.Warn("kelly sizing skipped", zap.String("match_id", matchID), zap.Error(err))
		return nil
	}

	return &events.StakeAdvice{
		IsPositiveEV:    res.IsPositiveEV,
		EVPercentage:    res.EVPercentage,
		BookmakerOdds:   pickOdds,
		StakePercentage: res.RecommendedStakePercentage,
		Stake:           res.RecommendedStake,
		StakeUnits:      res.RecommendedStakeUnits,
		RiskLevel:       string(res.RiskLevel),
	}
}

func arbitrageAdvice(quotes []events.OddsQuote) *events.ArbitrageAdvice {
	opp := arbitrage.Detect(quotes)
	if opp == nil {
		return nil
	}
	return &events.ArbitrageAdvice{
		ArbitragePercentage:        opp.ArbitragePercentage,
		GuaranteedProfitPercentage: opp.GuaranteedProfitPercentage,
		HomeStakePct:               opp.StakeSplit.Home,
		AwayStakePct:               opp.StakeSplit.Away,
		DrawStakePct:               opp.StakeSplit.Draw,
		HomeBook:                   opp.HomeBook,
		AwayBook:                   opp.AwayBook,
		DrawBook:                   opp.DrawBook,
	}
}

func scenarioTags(dets []scenario.Detection) []events.ScenarioTag {
	if len(dets) == 0 {
		return nil
	}
	tags := make([]events.ScenarioTag, 0, len(dets))
	for _, d := range dets {
		tags = append(tags, events.ScenarioTag{
			ScenarioID:    d.Scenario.ID,
			Name:          d.Scenario.Name,
			WinRate:       d.Scenario.WinRate,
			ExpectedROI:   d.Scenario.ExpectedROI,
			KellyFraction: d.Scenario.KellyFraction,
			Confidence:    d.Confidence,
			MatchFactors:  d.MatchFactors,
		})
	}
	return tags
}

package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	"github.com/radieske/bet-consensus-poc/internal/engine/ensemble"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

type staticQuotes struct {
	quotes []events.OddsQuote
	err    error
}

func (s *staticQuotes) GetQuotes(ctx context.Context, matchID string) ([]events.OddsQuote, error) {
	return s.quotes, s.err
}

func testWeights() *consensus.CachedWeightProvider {
	return consensus.NewCachedWeightProvider(consensus.WeightSourceFunc(
		func(ctx context.Context) ([]events.AlgorithmWeight, error) {
			return []events.AlgorithmWeight{
				{AlgorithmID: "statistical_edge", Weight: 0.6},
				{AlgorithmID: "momentum", Weight: 0.4},
			}, nil
		},
	))
}

func testPipeline(quotes QuoteSource) *Pipeline {
	return &Pipeline{
		Log:       zap.NewNop(),
		Consensus: consensus.New(),
		Weights:   testWeights(),
		Ensemble:  ensemble.New(zap.NewNop(), nil),
		Quotes:    quotes,
		Staking:   Staking{Bankroll: 1000},
	}
}

func testSet() events.PredictionSet {
	return events.PredictionSet{
		MatchID: "match-1",
		Predictions: []events.PredictionResult{
			{MatchID: "match-1", AlgorithmID: "statistical_edge", Recommended: events.SideHome, Confidence: 60, TrueProbability: 0.60, ProjectedScore: events.ProjectedScore{Home: 2, Away: 1}},
			{MatchID: "match-1", AlgorithmID: "momentum", Recommended: events.SideHome, Confidence: 64, TrueProbability: 0.64, ProjectedScore: events.ProjectedScore{Home: 2, Away: 1}},
		},
		Context: events.MatchContext{Spread: 1.0},
	}
}

func TestBuildFullRecommendation(t *testing.T) {
	quotes := &staticQuotes{quotes: []events.OddsQuote{
		{SportsbookID: "book_a", HomeWin: 2.0, AwayWin: 2.0},
	}}
	p := testPipeline(quotes)

	rec, err := p.Build(context.Background(), testSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if rec.ID == "" {
		t.Error("recommendation has empty ID")
	}
	if rec.Pick != events.SideHome {
		t.Errorf("Pick = %q, want home", rec.Pick)
	}
	if rec.AgreementLevel != events.AgreementUnanimous {
		t.Errorf("AgreementLevel = %q, want unanimous", rec.AgreementLevel)
	}

	// Base: 0.6*60 + 0.4*64 = 61.6; ajuste: +2 (unânime, duas famílias).
	if math.Abs(rec.BaseConfidence-61.6) > 1e-9 {
		t.Errorf("BaseConfidence = %v, want 61.6", rec.BaseConfidence)
	}
	if math.Abs(rec.Confidence-63.6) > 1e-9 {
		t.Errorf("Confidence = %v, want 63.6", rec.Confidence)
	}

	// Stake Kelly sobre o melhor preço do lado escolhido (2.0) com a
	// probabilidade média de quem concorda: 0.6*0.6 + 0.64*0.4 = 0.616.
	if rec.Stake == nil {
		t.Fatal("Stake = nil, want advice")
	}
	if math.Abs(rec.Stake.EVPercentage-23.2) > 1e-9 {
		t.Errorf("Stake.EVPercentage = %v, want 23.2", rec.Stake.EVPercentage)
	}
	if math.Abs(rec.Stake.Stake-232) > 1e-6 {
		t.Errorf("Stake.Stake = %v, want 232", rec.Stake.Stake)
	}

	// 1/2.0 + 1/2.0 = 100%: checagem presente, sem lucro garantido.
	if rec.Arbitrage == nil {
		t.Fatal("Arbitrage = nil, want advice")
	}
	if math.Abs(rec.Arbitrage.ArbitragePercentage-100) > 1e-9 {
		t.Errorf("ArbitragePercentage = %v, want 100", rec.Arbitrage.ArbitragePercentage)
	}

	// Odd 2.0 com linha 1.0: formato pick'em.
	found := false
	for _, s := range rec.Scenarios {
		if s.ScenarioID == "pickem" {
			found = true
		}
	}
	if !found {
		t.Errorf("Scenarios = %+v, want pickem detected", rec.Scenarios)
	}
}

func TestBuildWithoutQuotes(t *testing.T) {
	p := testPipeline(&staticQuotes{})

	rec, err := p.Build(context.Background(), testSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rec.Stake != nil {
		t.Errorf("Stake = %+v, want nil without quotes", rec.Stake)
	}
	if rec.Arbitrage != nil {
		t.Errorf("Arbitrage = %+v, want nil without quotes", rec.Arbitrage)
	}
	if rec.Pick != events.SideHome {
		t.Errorf("Pick = %q, want home (consensus independe de cotação)", rec.Pick)
	}
}

func TestBuildQuoteLookupFailureIsSoft(t *testing.T) {
	p := testPipeline(&staticQuotes{err: errors.New("redis down")})

	rec, err := p.Build(context.Background(), testSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rec.Stake != nil || rec.Arbitrage != nil {
		t.Error("staking/arbitrage advice present despite quote failure")
	}
}

func TestBuildEmptySetFails(t *testing.T) {
	p := testPipeline(&staticQuotes{})

	_, err := p.Build(context.Background(), events.PredictionSet{MatchID: "match-1"})
	if !errors.Is(err, consensus.ErrEmptyPredictionSet) {
		t.Errorf("err = %v, want ErrEmptyPredictionSet", err)
	}
}

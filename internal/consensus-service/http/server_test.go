package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/consensus-service/dto"
	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

func testAPI() *API {
	src := consensus.WeightSourceFunc(func(ctx context.Context) ([]events.AlgorithmWeight, error) {
		return []events.AlgorithmWeight{
			{AlgorithmID: "statistical_edge", AlgorithmName: "Statistical Edge", Weight: 0.6, WinRate: 58.2},
			{AlgorithmID: "momentum", AlgorithmName: "Momentum", Weight: 0.4, WinRate: 52.1},
		}, nil
	})
	return &API{
		Log:       zap.NewNop(),
		Weights:   consensus.NewCachedWeightProvider(src),
		Consensus: consensus.New(),
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestKellyEndpoint(t *testing.T) {
	h := testAPI().Router()

	rr := postJSON(t, h, "/v1/kelly", dto.KellyRequest{
		TrueProbability: 0.55,
		BookmakerOdds:   2.0,
		Bankroll:        1000,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var res dto.KellyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !res.IsPositiveEV {
		t.Error("IsPositiveEV = false, want true")
	}
	if math.Abs(res.FullKelly-0.10) > 1e-9 {
		t.Errorf("FullKelly = %v, want 0.10", res.FullKelly)
	}
	if math.Abs(res.RecommendedStake-100) > 1e-6 {
		t.Errorf("RecommendedStake = %v, want 100", res.RecommendedStake)
	}
	if res.RiskLevel != "high" {
		t.Errorf("RiskLevel = %q, want high", res.RiskLevel)
	}
}

func TestKellyEndpointInvalidInput(t *testing.T) {
	h := testAPI().Router()

	cases := []struct {
		name string
		req  dto.KellyRequest
		code string
	}{
		{"probability one", dto.KellyRequest{TrueProbability: 1.0, BookmakerOdds: 2.0, Bankroll: 100}, "invalid_probability"},
		{"odds at one", dto.KellyRequest{TrueProbability: 0.5, BookmakerOdds: 1.0, Bankroll: 100}, "invalid_odds"},
		{"zero bankroll", dto.KellyRequest{TrueProbability: 0.5, BookmakerOdds: 2.0, Bankroll: 0}, "invalid_bankroll"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postJSON(t, h, "/v1/kelly", tc.req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var e dto.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if e.Code != tc.code {
				t.Errorf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestArbitrageEndpoint(t *testing.T) {
	h := testAPI().Router()

	rr := postJSON(t, h, "/v1/arbitrage", dto.ArbitrageRequest{
		Quotes: []events.OddsQuote{
			{SportsbookID: "book_a", HomeWin: 2.10, AwayWin: 1.91},
			{SportsbookID: "book_b", HomeWin: 1.91, AwayWin: 2.10},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var res dto.ArbitrageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if math.Abs(res.ArbitragePercentage-95.238095) > 1e-4 {
		t.Errorf("ArbitragePercentage = %v, want 95.238095", res.ArbitragePercentage)
	}
	if !res.HasOpportunity {
		t.Error("HasOpportunity = false, want true")
	}
	if res.HomeBook != "book_a" || res.AwayBook != "book_b" {
		t.Errorf("books = %q/%q, want book_a/book_b", res.HomeBook, res.AwayBook)
	}
}

func TestArbitrageEndpointNoQuotes(t *testing.T) {
	h := testAPI().Router()

	rr := postJSON(t, h, "/v1/arbitrage", dto.ArbitrageRequest{})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var res dto.ArbitrageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ArbitragePercentage != 100 {
		t.Errorf("ArbitragePercentage = %v, want neutral 100", res.ArbitragePercentage)
	}
	if res.HasOpportunity {
		t.Error("HasOpportunity = true, want false")
	}
}

func TestScenarioEndpoint(t *testing.T) {
	h := testAPI().Router()

	rr := postJSON(t, h, "/v1/scenarios", dto.ScenarioRequest{
		DecimalOdds: 1.25,
		Live:        false,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var res []dto.ScenarioDetectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res) != 1 || res[0].ScenarioID != "heavy_favorite" {
		t.Fatalf("detections = %+v, want only heavy_favorite", res)
	}
	if res[0].Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", res[0].Confidence)
	}
}

func TestConsensusEndpoint(t *testing.T) {
	h := testAPI().Router()

	rr := postJSON(t, h, "/v1/consensus", dto.ConsensusRequest{
		MatchID: "match-42",
		Predictions: []events.PredictionResult{
			{MatchID: "match-42", AlgorithmID: "statistical_edge", Recommended: events.SideHome, Confidence: 70, TrueProbability: 0.70, ProjectedScore: events.ProjectedScore{Home: 105, Away: 99}},
			{MatchID: "match-42", AlgorithmID: "momentum", Recommended: events.SideAway, Confidence: 60, TrueProbability: 0.60, ProjectedScore: events.ProjectedScore{Home: 100, Away: 104}},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var res events.ConsensusResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Recommended != events.SideHome {
		t.Errorf("Recommended = %q, want home (weight 0.6 beats 0.4)", res.Recommended)
	}
	if res.AgreementLevel != events.AgreementSplit {
		t.Errorf("AgreementLevel = %q, want split", res.AgreementLevel)
	}
}

func TestConsensusEndpointEmpty(t *testing.T) {
	h := testAPI().Router()

	rr := postJSON(t, h, "/v1/consensus", dto.ConsensusRequest{MatchID: "match-42"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var e dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Code != "empty_prediction_set" {
		t.Errorf("code = %q, want empty_prediction_set", e.Code)
	}
}

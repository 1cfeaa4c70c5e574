package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/consensus-service/cache"
	"github.com/radieske/bet-consensus-poc/internal/consensus-service/dto"
	"github.com/radieske/bet-consensus-poc/internal/consensus-service/repo"
	"github.com/radieske/bet-consensus-poc/internal/engine/arbitrage"
	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	"github.com/radieske/bet-consensus-poc/internal/engine/kelly"
	"github.com/radieske/bet-consensus-poc/internal/engine/scenario"
)

// recCacheTTL é o TTL da recomendação recolocada no cache após um miss.
const recCacheTTL = 60 * time.Second

// API expõe os endpoints REST do consenso e das calculadoras de staking.
// Leituras de recomendação usam cache-aside (Redis na frente do Postgres);
// os endpoints de cálculo são puros e não tocam storage.
type API struct {
	Log       *zap.Logger
	ReadRepo  *repo.ReadRepo // pesos e recomendações no Postgres
	Cache     *cache.Cache   // recomendação corrente no Redis
	Weights   *consensus.CachedWeightProvider
	Consensus *consensus.Engine
	WS        http.HandlerFunc // opcional; handler do hub de broadcast
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/matches/{id}/recommendation", a.getRecommendation) // Recomendação corrente da partida
	r.Get("/v1/weights", a.getWeights)                            // Pesos correntes dos algoritmos
	r.Post("/v1/consensus", a.postConsensus)                      // Síntese de consenso ad-hoc
	r.Post("/v1/kelly", a.postKelly)                              // Dimensionamento de stake
	r.Post("/v1/arbitrage", a.postArbitrage)                      // Checagem de arbitragem
	r.Post("/v1/scenarios", a.postScenarios)                      // Detecção de cenários
	if a.WS != nil {
		r.Get("/ws", a.WS) // Stream de recomendações por partida
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg, Code: code})
}

// getRecommendation retorna a recomendação corrente, preferencialmente do cache
func (a *API) getRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if rec, ok, err := a.Cache.GetCurrent(r.Context(), id); err == nil && ok {
		writeJSON(w, http.StatusOK, rec)
		return
	} else if err != nil {
		a.Log.Warn("recommendation cache read failed", zap.String("match_id", id), zap.Error(err))
	}

	rec, err := a.ReadRepo.GetRecommendation(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "no recommendation for match", "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	_ = a.Cache.SetCurrent(r.Context(), rec, recCacheTTL)
	writeJSON(w, http.StatusOK, rec)
}

// getWeights retorna os pesos correntes dos algoritmos (cache com TTL)
func (a *API) getWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := a.Weights.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, weights)
}

// postConsensus sintetiza um consenso para previsões enviadas pelo chamador
func (a *API) postConsensus(w http.ResponseWriter, r *http.Request) {
	var req dto.ConsensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	weights, err := a.Weights.Get(r.Context())
	if err != nil {
		a.Log.Warn("weight fetch failed, using defaults", zap.Error(err))
		weights = nil
	}

	result, err := a.Consensus.Synthesize(req.Predictions, weights, req.MatchID)
	if err != nil {
		if errors.Is(err, consensus.ErrEmptyPredictionSet) {
			writeError(w, http.StatusBadRequest, err.Error(), "empty_prediction_set")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// postKelly executa o dimensionamento de stake pelo critério de Kelly
func (a *API) postKelly(w http.ResponseWriter, r *http.Request) {
	var req dto.KellyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	res, err := kelly.Calculate(kelly.Config{
		TrueProbability:  req.TrueProbability,
		BookmakerOdds:    req.BookmakerOdds,
		Bankroll:         req.Bankroll,
		KellyFraction:    req.KellyFraction,
		MaxBetPercentage: req.MaxBetPercentage,
		MinEVThreshold:   req.MinEVThreshold,
		UnitSize:         req.UnitSize,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), kellyErrorCode(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.KellyResponse{
		IsPositiveEV:               res.IsPositiveEV,
		EVPercentage:               res.EVPercentage,
		FullKelly:                  res.FullKelly,
		AdjustedKelly:              res.AdjustedKelly,
		RecommendedStake:           res.RecommendedStake,
		RecommendedStakePercentage: res.RecommendedStakePercentage,
		RecommendedStakeUnits:      res.RecommendedStakeUnits,
		RiskLevel:                  string(res.RiskLevel),
	})
}

// kellyErrorCode mapeia os erros tipados do engine para códigos da API
func kellyErrorCode(err error) string {
	switch {
	case errors.Is(err, kelly.ErrInvalidProbability):
		return "invalid_probability"
	case errors.Is(err, kelly.ErrInvalidOdds):
		return "invalid_odds"
	case errors.Is(err, kelly.ErrInvalidBankroll):
		return "invalid_bankroll"
	default:
		return ""
	}
}

// postArbitrage checa arbitragem entre as cotações enviadas
func (a *API) postArbitrage(w http.ResponseWriter, r *http.Request) {
	var req dto.ArbitrageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	opp := arbitrage.Detect(req.Quotes)
	if opp == nil {
		// Sem cotações utilizáveis: soma neutra, sem oportunidade.
		writeJSON(w, http.StatusOK, dto.ArbitrageResponse{
			ArbitragePercentage: arbitrage.NeutralPercentage,
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.ArbitrageResponse{
		ArbitragePercentage:        opp.ArbitragePercentage,
		GuaranteedProfitPercentage: opp.GuaranteedProfitPercentage,
		HasOpportunity:             opp.ArbitragePercentage < 100.0,
		HomeStakePct:               opp.StakeSplit.Home,
		AwayStakePct:               opp.StakeSplit.Away,
		DrawStakePct:               opp.StakeSplit.Draw,
		HomeBook:                   opp.HomeBook,
		AwayBook:                   opp.AwayBook,
		DrawBook:                   opp.DrawBook,
	})
}

// postScenarios detecta cenários de aposta conhecidos para os atributos enviados
func (a *API) postScenarios(w http.ResponseWriter, r *http.Request) {
	var req dto.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	detections := scenario.DetectScenarios(scenario.MatchAttributes{
		DecimalOdds: req.DecimalOdds,
		Spread:      req.Spread,
		Live:        req.Live,
		Tags:        req.Tags,
	})

	out := make([]dto.ScenarioDetectionResponse, 0, len(detections))
	for _, d := range detections {
		out = append(out, dto.ScenarioDetectionResponse{
			ScenarioID:    d.Scenario.ID,
			Name:          d.Scenario.Name,
			Description:   d.Scenario.Description,
			WinRate:       d.Scenario.WinRate,
			ExpectedROI:   d.Scenario.ExpectedROI,
			KellyFraction: d.Scenario.KellyFraction,
			Confidence:    d.Confidence,
			MatchFactors:  d.MatchFactors,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/shared/config"
	"github.com/radieske/bet-consensus-poc/internal/shared/logger"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Catálogo fixo de partidas simuladas
	matchCatalog = []struct {
		MatchID  string
		HomeTeam string
		AwayTeam string
	}{
		{"MATCH_001", "Flamengo", "Palmeiras"},
		{"MATCH_002", "Grêmio", "Internacional"},
		{"MATCH_003", "Corinthians", "Santos"},
		{"MATCH_004", "São Paulo", "Vasco"},
	}

	// Algoritmos simulados, cobrindo mais de uma família metodológica
	algoCatalog = []struct{ ID, Name string }{
		{"momentum", "Momentum"},
		{"value", "Value Finder"},
		{"statistical_edge", "Statistical Edge"},
		{"elo_rating", "Elo Rating"},
		{"poisson_score", "Poisson Score"},
	}

	bookCatalog = []string{"bet365", "pinnacle", "betfair"}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "provider_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provider_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
)

// Representa uma conexão de cliente WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// hub gerencia os clientes conectados em um feed e faz broadcast pra todos
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
	name    string
}

func newHub(log *zap.Logger, name string) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
		name:    name,
	}
}

func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("feed", h.name), zap.String("client_id", c.id))
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("feed", h.name), zap.String("client_id", id))
	}
}

// broadcast envia a mensagem pra todos os clientes do feed
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

// handler devolve o http.HandlerFunc que registra clientes no hub
func (h *hub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				// Lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func randomSide() events.Side {
	switch rand.Intn(3) {
	case 0:
		return events.SideHome
	case 1:
		return events.SideAway
	default:
		return events.SideDraw
	}
}

// simulatePredictionSet monta um PredictionSet plausível pra partida:
// confidence e true_probability consistentes, placar ao redor do esperado
func simulatePredictionSet(matchID, home, away, source string, version int) events.PredictionSet {
	preds := make([]events.PredictionResult, 0, len(algoCatalog))
	for _, a := range algoCatalog {
		conf := rnd(52, 78)
		preds = append(preds, events.PredictionResult{
			MatchID:         matchID,
			AlgorithmID:     a.ID,
			AlgorithmName:   a.Name,
			Recommended:     randomSide(),
			Confidence:      conf,
			TrueProbability: conf/100 + rnd(-0.03, 0.03),
			ProjectedScore:  events.ProjectedScore{Home: rand.Intn(4), Away: rand.Intn(4)},
			EVPercentage:    rnd(-2, 8),
		})
	}

	streak := func() int { return rand.Intn(9) - 4 } // -4..4
	return events.PredictionSet{
		MatchID:     matchID,
		HomeTeam:    home,
		AwayTeam:    away,
		Predictions: preds,
		Context: events.MatchContext{
			Live:       rand.Intn(5) == 0,
			Spread:     rnd(0, 12),
			HomeStreak: streak(),
			AwayStreak: streak(),
		},
		UpdatedAt: time.Now().UTC(),
		Source:    source,
		Version:   version,
	}
}

// synthesisHandler mocka o endpoint remoto de síntese qualitativa
func synthesisHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req struct {
		MatchID     string      `json:"matchId"`
		Recommended events.Side `json:"recommended"`
		Confidence  float64     `json:"confidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	adjusted := req.Confidence + rnd(-5, 5)
	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 100 {
		adjusted = 100
	}

	riskFlags := []string{"low", "medium", "high"}
	resp := map[string]any{
		"finalPick":          req.Recommended,
		"adjustedConfidence": adjusted,
		"reasoning":          "simulated qualitative synthesis for " + req.MatchID,
		"biasesIdentified":   []string{"recency_bias_mock"},
		"riskFlag":           riskFlags[rand.Intn(len(riskFlags))],
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(wsConnections, wsMessagesSent)

	predHub := newHub(log, "predictions")
	oddsHub := newHub(log, "odds")

	// Gera e envia PredictionSets simulados a cada 5 segundos
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		version := 1
		for range ticker.C {
			for _, m := range matchCatalog {
				set := simulatePredictionSet(m.MatchID, m.HomeTeam, m.AwayTeam, cfg.ServiceName, version)
				predHub.broadcast(set)
			}
			version++
		}
	}()

	// Gera e envia cotações simuladas de cada bookmaker a cada 3 segundos
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		version := 1
		for range ticker.C {
			for _, m := range matchCatalog {
				for _, book := range bookCatalog {
					upd := events.OddsQuoteUpdate{
						MatchID: m.MatchID,
						Quote: events.OddsQuote{
							SportsbookID: book,
							HomeWin:      rnd(1.40, 3.50),
							AwayWin:      rnd(2.00, 5.00),
							Draw:         rnd(2.50, 4.50),
						},
						UpdatedAt: time.Now().UTC(),
						Source:    cfg.ServiceName,
						Version:   version,
					}
					oddsHub.broadcast(upd)
				}
			}
			version++
		}
	}()

	// ==== MUX PÚBLICO: feeds WS e mock de síntese
	appMux := http.NewServeMux()
	appMux.HandleFunc("/ws/predictions", predHub.handler())
	appMux.HandleFunc("/ws/odds", oddsHub.handler())
	appMux.HandleFunc("/v1/synthesis", synthesisHandler)

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("provider simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("provider simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws/predictions,/ws/odds,/v1/synthesis"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"

	"github.com/radieske/bet-consensus-poc/internal/consensus-service/repo"
	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	"github.com/radieske/bet-consensus-poc/internal/engine/ensemble"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/cache"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/consumer"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/pipeline"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/pubsub"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/repository"
	sharedcache "github.com/radieske/bet-consensus-poc/internal/shared/cache"
	"github.com/radieske/bet-consensus-poc/internal/shared/config"
	"github.com/radieske/bet-consensus-poc/internal/shared/db"
	sharedkafka "github.com/radieske/bet-consensus-poc/internal/shared/kafka"
	"github.com/radieske/bet-consensus-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Cache Redis (recomendação corrente + cotações) e repositório Postgres
	ttl := 5 * time.Minute
	rcache := cache.NewRedisCache(redisClient, ttl)
	recRepo := repository.NewPostgresRepo(pg)

	// Pesos dos algoritmos: leitura no Postgres atrás do cache com TTL
	weights := consensus.NewCachedWeightProvider(repo.NewReadRepo(pg))

	// Síntese qualitativa remota é opcional; URL vazia desliga
	var synth *ensemble.SynthesisClient
	if cfg.SynthesisBaseURL != "" {
		synth = ensemble.NewSynthesisClient(cfg.SynthesisBaseURL)
	}

	pipe := &pipeline.Pipeline{
		Log:       log,
		Consensus: consensus.New(),
		Weights:   weights,
		Ensemble:  ensemble.New(log, synth),
		Quotes:    rcache,
		Staking: pipeline.Staking{
			Bankroll:         cfg.Bankroll,
			KellyFraction:    cfg.KellyFraction,
			MaxBetPercentage: cfg.MaxBetPercentage,
			MinEVThreshold:   cfg.MinEVThreshold,
			UnitSize:         cfg.UnitSize,
		},
	}

	// Consumers Kafka: previsões (pipeline completa) e cotações (só cache)
	predReader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicPredictionResults, "recommendation-worker")
	defer predReader.Close()

	quoteReader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicOddsQuotes, "recommendation-worker-quotes")
	defer quoteReader.Close()

	dlqWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPredictionResultsDLQ)
	defer dlqWriter.Close()

	recWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRecommendations)
	defer recWriter.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "rec_worker_messages_consumed_total", Help: "mensagens consumidas"})
	built := prometheus.NewCounter(prometheus.CounterOpts{Name: "rec_worker_recommendations_built_total", Help: "recomendações construídas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "rec_worker_cache_sets_total", Help: "sets no cache"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "rec_worker_db_writes_total", Help: "escritas no banco (upsert+history)"})
	quotesConsumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "rec_worker_quotes_consumed_total", Help: "cotações consumidas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "rec_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, built, cached, persist, quotesConsumed, errorsBy)

	// Broadcaster para publicar recomendações no Redis Pub/Sub (camada WS)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	proc := &consumer.Processor{
		Log:        log,
		Reader:     predReader,
		Pipeline:   pipe,
		Repo:       recRepo,
		Cache:      rcache,
		DLQ:        dlqWriter,
		OnConsumed: func() { consumed.Inc() },
		OnBuilt:    func() { built.Inc() },
		OnCached:   func() { cached.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após sucesso de persistência, publica no tópico de saída e no Pub/Sub
		OnAfterPersist: func(rec events.Recommendation) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if payload, err := json.Marshal(rec); err == nil {
				if err := sharedkafka.WriteJSON(ctx, recWriter, rec.MatchID, payload); err != nil {
					log.Warn("recommendation publish failed", zap.Error(err))
				}
			}

			msg := pubsub.WSUpdate{MatchID: rec.MatchID, Payload: rec}
			b, _ := json.Marshal(msg)
			if err := broadcaster.Publish(ctx, cfg.RedisPubSubChannel, b); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	quoteProc := &consumer.QuoteConsumer{
		Log:        log,
		Reader:     quoteReader,
		Cache:      rcache,
		OnConsumed: func() { quotesConsumed.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues("quotes_" + stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := quoteProc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("quote consumer stopped with error", zap.Error(err))
		}
	}()

	log.Info("recommendation-worker started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("recommendation-worker stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	svccache "github.com/radieske/bet-consensus-poc/internal/consensus-service/cache"
	httpapi "github.com/radieske/bet-consensus-poc/internal/consensus-service/http"
	"github.com/radieske/bet-consensus-poc/internal/consensus-service/repo"
	"github.com/radieske/bet-consensus-poc/internal/consensus-service/ws"
	"github.com/radieske/bet-consensus-poc/internal/engine/consensus"
	sharedcache "github.com/radieske/bet-consensus-poc/internal/shared/cache"
	"github.com/radieske/bet-consensus-poc/internal/shared/config"
	"github.com/radieske/bet-consensus-poc/internal/shared/db"
	"github.com/radieske/bet-consensus-poc/internal/shared/logger"
	"github.com/radieske/bet-consensus-poc/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	readRepo := repo.NewReadRepo(pg)

	// Hub WebSocket alimentado pelo Pub/Sub do recommendation-worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	api := &httpapi.API{
		Log:       log,
		ReadRepo:  readRepo,
		Cache:     svccache.New(redisClient),
		Weights:   consensus.NewCachedWeightProvider(readRepo),
		Consensus: consensus.New(),
		WS:        hub.HandleWS,
	}

	// sobe servidor de métricas e health em porta separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("http server starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("http server failed", zap.Error(err))
	}
}

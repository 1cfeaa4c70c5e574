package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/prediction-ingest/publisher"
	"github.com/radieske/bet-consensus-poc/internal/prediction-ingest/service"
	"github.com/radieske/bet-consensus-poc/internal/shared/config"
	"github.com/radieske/bet-consensus-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brokers := strings.Split(cfg.KafkaBrokers, ",")

	// Um publisher por tópico: previsões e cotações
	predPub := publisher.NewKafkaPublisher(brokers, cfg.TopicPredictionResults, log)
	defer predPub.Close()

	oddsPub := publisher.NewKafkaPublisher(brokers, cfg.TopicOddsQuotes, log)
	defer oddsPub.Close()

	// Um cliente WS por feed do provedor
	predClient := &service.FeedClient{
		URL:    cfg.ProviderPredictionsWSURL,
		Name:   "predictions",
		Log:    log,
		Handle: service.PredictionFeedHandler(predPub),
	}
	go predClient.Start(ctx)

	oddsClient := &service.FeedClient{
		URL:    cfg.ProviderOddsWSURL,
		Name:   "odds",
		Log:    log,
		Handle: service.OddsFeedHandler(oddsPub),
	}
	go oddsClient.Start(ctx)

	// Metrics e health
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}

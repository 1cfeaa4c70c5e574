package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher encapsula o writer Kafka de um tópico do ingest.
// O mesmo tipo atende previsões e cotações; a chave da mensagem é sempre o
// match_id, garantindo ordem por partida dentro da partição.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher cria um publisher para um tópico Kafka.
// Em ambiente local/dev o tópico é criado no controller do cluster caso ainda
// não exista; em produção o provisionamento é externo.
func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	if len(brokers) == 0 {
		log.Fatal("kafka brokers not provided")
	}

	ctrlCtx, ctrlCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ctrlCancel()

	if env := os.Getenv("APP_ENV"); env == "local" || env == "dev" {
		ensureTopic(ctrlCtx, brokers, topic, log)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}

	return &KafkaPublisher{writer: writer, log: log}
}

// ensureTopic cria o tópico com configuração single-broker via controller.
// Tópico já existente não é erro.
func ensureTopic(ctx context.Context, brokers []string, topic string, log *zap.Logger) {
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		log.Fatal("failed to connect to kafka", zap.Error(err))
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		log.Fatal("failed to get kafka controller", zap.Error(err))
	}

	controllerAddr := fmt.Sprintf("%s:%d", controller.Host, controller.Port)
	cconn, err := kafka.DialContext(ctx, "tcp", controllerAddr)
	if err != nil {
		log.Fatal("failed to dial controller", zap.Error(err))
	}
	defer cconn.Close()

	cfg := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}
	if err := cconn.CreateTopics(cfg); err != nil && !strings.Contains(err.Error(), "already exists") {
		log.Warn("failed to create kafka topic", zap.String("topic", topic), zap.Error(err))
	} else if err == nil {
		log.Info("kafka topic created", zap.String("topic", topic))
	}
}

// Publish serializa o payload em JSON e envia com a chave informada.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish message", zap.Error(err))
		return err
	}

	p.log.Debug("published message", zap.String("key", key))
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

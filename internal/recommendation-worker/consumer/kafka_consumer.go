package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/cache"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/pipeline"
	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/repository"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// Processor consome PredictionSets do Kafka, roda a pipeline de recomendação,
// faz cache e persiste no banco.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log      *zap.Logger
	Reader   *kafka.Reader
	Pipeline *pipeline.Pipeline
	Repo     *repository.PostgresRepo
	Cache    *cache.RedisCache
	DLQ      *kafka.Writer // opcional; mensagens inválidas vão pra cá

	OnConsumed func()       // métricas (counter++)
	OnBuilt    func()       // métricas
	OnCached   func()       // métricas
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase

	// Após sucesso de persistência (broadcast pro pub/sub, por exemplo)
	OnAfterPersist func(events.Recommendation)
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var set events.PredictionSet
		if err := json.Unmarshal(m.Value, &set); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			p.fail("decode")
			p.deadLetter(ctx, m.Value)
			continue
		}
		if err := validateSet(set); err != nil {
			p.Log.Warn("prediction set rejected",
				zap.String("match_id", set.MatchID), zap.Error(err))
			p.fail("validate")
			p.deadLetter(ctx, m.Value)
			continue
		}

		rec, err := p.Pipeline.Build(ctx, set)
		if err != nil {
			p.Log.Warn("pipeline build failed",
				zap.String("match_id", set.MatchID), zap.Error(err))
			p.fail("build")
			continue
		}
		if p.OnBuilt != nil {
			p.OnBuilt()
		}

		// Atualiza cache Redis com a recomendação corrente
		if err := p.Cache.SetCurrent(ctx, rec); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			p.fail("cache")
			// não bloqueia persistência se falhar o cache
		} else if p.OnCached != nil {
			p.OnCached()
		}

		// Persiste/atualiza recomendação corrente e histórico no Postgres
		if err := p.Repo.UpsertCurrent(ctx, rec); err != nil {
			p.Log.Warn("db upsert failed", zap.Error(err))
			p.fail("db_upsert")
			continue
		}
		if err := p.Repo.InsertHistory(ctx, rec); err != nil {
			p.Log.Warn("db insert history failed", zap.Error(err))
			p.fail("db_history")
			continue
		}
		if p.OnPersist != nil {
			p.OnPersist() // callback de métrica: persistência concluída
		}

		if p.OnAfterPersist != nil {
			p.OnAfterPersist(rec)
		}
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

// deadLetter envia a mensagem original pra DLQ, quando configurada.
func (p *Processor) deadLetter(ctx context.Context, value []byte) {
	if p.DLQ == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.DLQ.WriteMessages(wctx, kafka.Message{Value: value, Time: time.Now()}); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
	}
}

// validateSet checa o contrato mínimo do PredictionSet antes da pipeline:
// precisa de match_id, ao menos uma previsão, e confidence/true_probability
// mutuamente consistentes em cada previsão.
func validateSet(set events.PredictionSet) error {
	if set.MatchID == "" {
		return errMissingMatchID
	}
	if len(set.Predictions) == 0 {
		return errNoPredictions
	}
	for _, pr := range set.Predictions {
		if pr.TrueProbability <= 0 || pr.TrueProbability >= 1 {
			return errBadProbability
		}
		if pr.Confidence < 0 || pr.Confidence > 100 {
			return errBadConfidence
		}
		// true_probability ~= confidence/100; divergência grande indica
		// previsão corrompida na origem.
		if diff := pr.TrueProbability*100 - pr.Confidence; diff > 5 || diff < -5 {
			return errInconsistentConfidence
		}
		switch pr.Recommended {
		case events.SideHome, events.SideAway, events.SideDraw:
		default:
			return errBadSide
		}
	}
	return nil
}

package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bet-consensus-poc/internal/recommendation-worker/cache"
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// QuoteConsumer mantém o cache de cotações atualizado a partir do tópico
// odds_quotes. Roda numa goroutine ao lado do Processor.
type QuoteConsumer struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Cache  *cache.RedisCache

	OnConsumed func()
	OnError    func(string)
}

// Run inicia o loop de consumo de cotações
func (c *QuoteConsumer) Run(ctx context.Context) error {
	for {
		m, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Warn("kafka read failed", zap.Error(err))
			c.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if c.OnConsumed != nil {
			c.OnConsumed()
		}

		var upd events.OddsQuoteUpdate
		if err := json.Unmarshal(m.Value, &upd); err != nil {
			c.Log.Warn("invalid quote message", zap.Error(err))
			c.fail("decode")
			continue
		}
		if upd.MatchID == "" || upd.Quote.SportsbookID == "" {
			c.fail("validate")
			continue
		}

		if err := c.Cache.SetQuote(ctx, upd); err != nil {
			c.Log.Warn("quote cache set failed",
				zap.String("match_id", upd.MatchID), zap.Error(err))
			c.fail("cache")
		}
	}
}

func (c *QuoteConsumer) fail(stage string) {
	if c.OnError != nil {
		c.OnError(stage)
	}
}

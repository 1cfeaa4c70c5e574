package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// Cache lê/escreve a recomendação corrente no Redis. Compartilha o esquema de
// chave "rec:current:{matchID}" com o recommendation-worker.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyRec(matchID string) string { return "rec:current:" + matchID }

func (c *Cache) GetCurrent(ctx context.Context, matchID string) (events.Recommendation, bool, error) {
	b, err := c.R.Get(ctx, keyRec(matchID)).Bytes()
	if err == redis.Nil {
		return events.Recommendation{}, false, nil
	}
	if err != nil {
		return events.Recommendation{}, false, err
	}

	var rec events.Recommendation
	if err := json.Unmarshal(b, &rec); err != nil {
		return events.Recommendation{}, false, err
	}
	return rec, true, nil
}

func (c *Cache) SetCurrent(ctx context.Context, rec events.Recommendation, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, keyRec(rec.MatchID), b, ttl).Err()
}

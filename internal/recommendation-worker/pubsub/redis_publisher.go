package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const ChannelRecommendationBroadcast = "recommendations_broadcast"

type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// Payload padrão para consumo pela camada de apresentação
type WSUpdate struct {
	MatchID string      `json:"matchId"`
	Payload interface{} `json:"payload"`
}

package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// onde o recommendation-worker publica e repassa as atualizações para os
// clientes WebSocket conectados via Hub
//
// Funcionamento:
// - Recebe mensagens JSON do canal Redis
// - Desserializa para RecommendationUpdate
// - Chama hub.Broadcast para enviar aos clientes inscritos na partida
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var upd RecommendationUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
					log.Warn("ws subscriber unmarshal error", zap.Error(err))
					continue
				}
				hub.Broadcast(upd) // envia atualização para os clientes inscritos
			}
		}
	}()
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// RedisCache guarda a recomendação corrente e as cotações mais recentes por
// bookmaker no Redis.
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// recKey gera a chave Redis da recomendação corrente de uma partida
func recKey(matchID string) string { return "rec:current:" + matchID }

// quotesKey gera a chave do hash de cotações de uma partida (campo = bookmaker)
func quotesKey(matchID string) string { return "quotes:" + matchID }

// SetCurrent armazena a recomendação corrente de uma partida com TTL definido
func (r *RedisCache) SetCurrent(ctx context.Context, rec events.Recommendation) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, recKey(rec.MatchID), b, r.TTL).Err()
}

// SetQuote registra a cotação corrente de um bookmaker para a partida.
// O hash inteiro expira junto; cotação velha não sobrevive ao TTL.
func (r *RedisCache) SetQuote(ctx context.Context, upd events.OddsQuoteUpdate) error {
	b, err := json.Marshal(upd.Quote)
	if err != nil {
		return err
	}
	pipe := r.Client.TxPipeline()
	pipe.HSet(ctx, quotesKey(upd.MatchID), upd.Quote.SportsbookID, b)
	pipe.Expire(ctx, quotesKey(upd.MatchID), r.TTL)
	_, err = pipe.Exec(ctx)
	return err
}

// GetQuotes devolve as cotações conhecidas de todos os bookmakers da partida.
// Partida sem cotações retorna slice vazio, não erro.
func (r *RedisCache) GetQuotes(ctx context.Context, matchID string) ([]events.OddsQuote, error) {
	fields, err := r.Client.HGetAll(ctx, quotesKey(matchID)).Result()
	if err != nil {
		return nil, err
	}

	quotes := make([]events.OddsQuote, 0, len(fields))
	for _, raw := range fields {
		var q events.OddsQuote
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			continue // entrada corrompida não derruba as demais
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

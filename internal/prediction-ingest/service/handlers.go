package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// Publisher é o destino das mensagens validadas do ingest.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

var (
	errMissingMatchID = errors.New("missing match_id")
	errNoPredictions  = errors.New("prediction set has no predictions")
	errMissingBook    = errors.New("missing sportsbook_id")
)

// PredictionFeedHandler devolve o handler do feed de previsões: desserializa
// o PredictionSet, aplica a validação mínima de ingest e publica no Kafka.
// A validação semântica fina (probabilidades, consistência de confiança) é do
// worker; aqui barramos apenas mensagens estruturalmente inúteis.
func PredictionFeedHandler(pub Publisher) func(ctx context.Context, raw []byte) error {
	return func(ctx context.Context, raw []byte) error {
		var set events.PredictionSet
		if err := json.Unmarshal(raw, &set); err != nil {
			return fmt.Errorf("invalid prediction set: %w", err)
		}
		if set.MatchID == "" {
			return errMissingMatchID
		}
		if len(set.Predictions) == 0 {
			return errNoPredictions
		}
		if set.UpdatedAt.IsZero() {
			set.UpdatedAt = time.Now().UTC()
		}
		return pub.Publish(ctx, set.MatchID, set)
	}
}

// OddsFeedHandler devolve o handler do feed de cotações dos bookmakers.
func OddsFeedHandler(pub Publisher) func(ctx context.Context, raw []byte) error {
	return func(ctx context.Context, raw []byte) error {
		var upd events.OddsQuoteUpdate
		if err := json.Unmarshal(raw, &upd); err != nil {
			return fmt.Errorf("invalid odds quote: %w", err)
		}
		if upd.MatchID == "" {
			return errMissingMatchID
		}
		if upd.Quote.SportsbookID == "" {
			return errMissingBook
		}
		if upd.UpdatedAt.IsZero() {
			upd.UpdatedAt = time.Now().UTC()
		}
		return pub.Publish(ctx, upd.MatchID, upd)
	}
}

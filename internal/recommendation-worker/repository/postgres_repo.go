package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// PostgresRepo implementa a persistência de recomendações em um banco Postgres
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertCurrent insere ou atualiza a recomendação corrente de uma partida.
// Utiliza ON CONFLICT para garantir atomicidade e evitar duplicidade por match_id
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, rec events.Recommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO recommendations_current
		  (match_id, rec_id, pick, confidence, base_confidence, agreement_level,
		   projected_home, projected_away, payload, created_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (match_id) DO UPDATE SET
		  rec_id          = EXCLUDED.rec_id,
		  pick            = EXCLUDED.pick,
		  confidence      = EXCLUDED.confidence,
		  base_confidence = EXCLUDED.base_confidence,
		  agreement_level = EXCLUDED.agreement_level,
		  projected_home  = EXCLUDED.projected_home,
		  projected_away  = EXCLUDED.projected_away,
		  payload         = EXCLUDED.payload,
		  created_at      = EXCLUDED.created_at
	`
	_, err = r.DB.ExecContext(ctx, q,
		rec.MatchID, rec.ID, string(rec.Pick), rec.Confidence, rec.BaseConfidence,
		string(rec.AgreementLevel), rec.ProjectedScore.Home, rec.ProjectedScore.Away,
		payload, rec.CreatedAt,
	)
	return err
}

// InsertHistory insere a recomendação no histórico (recommendations_history)
func (r *PostgresRepo) InsertHistory(ctx context.Context, rec events.Recommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO recommendations_history
		  (rec_id, match_id, pick, confidence, agreement_level, payload, created_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err = r.DB.ExecContext(ctx, q,
		rec.ID, rec.MatchID, string(rec.Pick), rec.Confidence,
		string(rec.AgreementLevel), payload, rec.CreatedAt,
	)
	return err
}

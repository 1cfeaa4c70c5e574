package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// ReadRepo implementa as leituras do consensus-service no Postgres:
// pesos dos algoritmos e recomendações persistidas pelo worker.
type ReadRepo struct{ db *sql.DB }

// NewReadRepo retorna uma instância do repositório de leitura
func NewReadRepo(db *sql.DB) *ReadRepo { return &ReadRepo{db: db} }

// FetchAlgorithmWeights carrega os pesos correntes dos algoritmos.
// Implementa consensus.WeightSource.
func (r *ReadRepo) FetchAlgorithmWeights(ctx context.Context) ([]events.AlgorithmWeight, error) {
	const q = `
		SELECT algorithm_id, algorithm_name, weight, win_rate
		FROM algorithm_weights
		ORDER BY algorithm_id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.AlgorithmWeight
	for rows.Next() {
		var w events.AlgorithmWeight
		if err := rows.Scan(&w.AlgorithmID, &w.AlgorithmName, &w.Weight, &w.WinRate); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetRecommendation devolve a recomendação corrente de uma partida.
// sql.ErrNoRows propaga quando não existe.
func (r *ReadRepo) GetRecommendation(ctx context.Context, matchID string) (events.Recommendation, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM recommendations_current WHERE match_id=$1`, matchID,
	).Scan(&payload)
	if err != nil {
		return events.Recommendation{}, err
	}

	var rec events.Recommendation
	if err := json.Unmarshal(payload, &rec); err != nil {
		return events.Recommendation{}, err
	}
	return rec, nil
}

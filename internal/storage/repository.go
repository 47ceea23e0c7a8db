// Package storage persists valuation history in PostgreSQL.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/database"
	"github.com/wonhee/gavel/pkg/logger"
)

// Repository implements valuation.HistoryStore on top of pgx
// ⭐ SSOT: 감정 이력 영속화는 여기서만
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates the history repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.Component("storage"),
	}
}

// EnsureSchema creates the history table when it does not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS valuation_history (
			id           BIGSERIAL PRIMARY KEY,
			request_id   TEXT NOT NULL,
			case_number  TEXT NOT NULL DEFAULT '',
			region       TEXT NOT NULL DEFAULT '',
			district     TEXT NOT NULL DEFAULT '',
			tier_used    INT NOT NULL,
			tier_name    TEXT NOT NULL,
			result       JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_valuation_history_case
			ON valuation_history (case_number, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure valuation_history schema: %w", err)
	}
	return nil
}

// SaveValuation stores one completed valuation
func (r *Repository) SaveValuation(ctx context.Context, rec valuation.HistoryRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal valuation result: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO valuation_history
			(request_id, case_number, region, district, tier_used, tier_name, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.RequestID, rec.CaseNumber, rec.Region, rec.District,
		rec.TierUsed, rec.TierName, result, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert valuation history: %w", err)
	}
	return nil
}

// RecentValuations returns the latest stored valuations, newest first
func (r *Repository) RecentValuations(ctx context.Context, limit int) ([]valuation.HistoryRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT request_id, case_number, region, district, tier_used, tier_name, result, created_at
		FROM valuation_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query valuation history: %w", err)
	}
	defer rows.Close()

	var records []valuation.HistoryRecord
	for rows.Next() {
		var (
			rec    valuation.HistoryRecord
			result []byte
		)
		if err := rows.Scan(&rec.RequestID, &rec.CaseNumber, &rec.Region, &rec.District,
			&rec.TierUsed, &rec.TierName, &result, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan valuation history: %w", err)
		}
		if err := json.Unmarshal(result, &rec.Result); err != nil {
			r.logger.WithError(err).WithField("request_id", rec.RequestID).Warn("Corrupt stored result, skipping")
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate valuation history: %w", err)
	}

	return records, nil
}

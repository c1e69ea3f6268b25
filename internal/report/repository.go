package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/pkg/database"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// ErrNotFound is returned when no stored report exists for a ticker.
var ErrNotFound = errors.New("report not found")

// HistoryEntry is one stored report row.
type HistoryEntry struct {
	Ticker string          `json:"ticker"`
	AsOf   time.Time       `json:"as_of"`
	Report json.RawMessage `json:"report"`
}

// Repository persists assembled reports so past scores can be compared
// against later runs. Persistence is optional: the pipeline works without
// a database, history endpoints just return empty results.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a report repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithField("component", "report_repository"),
	}
}

// EnsureSchema creates the reports table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS reports (
			id      BIGSERIAL PRIMARY KEY,
			ticker  TEXT        NOT NULL,
			as_of   TIMESTAMPTZ NOT NULL,
			body    JSONB       NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_ticker_as_of
			ON reports (ticker, as_of DESC);`

	if _, err := r.db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure reports schema: %w", err)
	}
	return nil
}

// Save stores a finished report.
func (r *Repository) Save(ctx context.Context, rep *contracts.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	const q = `INSERT INTO reports (ticker, as_of, body) VALUES ($1, $2, $3)`
	if _, err := r.db.Pool.Exec(ctx, q, rep.Ticker, rep.AsOf, body); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"ticker": rep.Ticker,
		"as_of":  rep.AsOf,
	}).Debug("Report saved")
	return nil
}

// Latest returns the most recent stored report for ticker.
func (r *Repository) Latest(ctx context.Context, ticker string) (*HistoryEntry, error) {
	const q = `
		SELECT ticker, as_of, body
		FROM reports
		WHERE ticker = $1
		ORDER BY as_of DESC
		LIMIT 1`

	var entry HistoryEntry
	err := r.db.Pool.QueryRow(ctx, q, ticker).Scan(&entry.Ticker, &entry.AsOf, &entry.Report)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load latest report: %w", err)
	}
	return &entry, nil
}

// History returns up to limit stored reports for ticker, newest first.
func (r *Repository) History(ctx context.Context, ticker string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
		SELECT ticker, as_of, body
		FROM reports
		WHERE ticker = $1
		ORDER BY as_of DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, q, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.Ticker, &entry.AsOf, &entry.Report); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}
	return entries, nil
}

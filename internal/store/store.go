// Filename: store/store.go
// Optional PostgreSQL persistence for analysis reports: one row per decode
// site, batched with CopyFrom inside a single transaction per report.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/charsift/api/schemas"
)

// DBPool abstracts pgxpool.Pool so tests can substitute a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store provides the PostgreSQL implementation of report persistence.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// siteColumns is the column order used by both PersistReport and
// GetSitesByFile.
var siteColumns = []string{
	"id", "run_id", "file", "location", "transform", "operand",
	"key_value", "status", "decoded", "observed_at",
}

// PersistReport writes every decode site of one report inside a single
// transaction. runID groups the sites of one CLI invocation.
func (s *Store) PersistReport(ctx context.Context, runID string, report *schemas.Report) error {
	if len(report.Sites) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after a successful commit returns ErrTxClosed; that is not
		// worth a log line.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	observedAt := report.GeneratedAt.UTC()
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	rows := make([][]interface{}, len(report.Sites))
	for i, site := range report.Sites {
		rows[i] = []interface{}{
			uuid.NewString(), runID, report.File,
			site.Location, site.Transform, site.Operand,
			site.Key, site.Status, site.Decoded,
			observedAt,
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"decode_sites"},
		siteColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy decode sites: %w", err)
	}
	if int(copyCount) != len(report.Sites) {
		return fmt.Errorf("mismatch in copied site count: expected %d, got %d", len(report.Sites), copyCount)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// StoredSite is one persisted decode site read back from the database.
type StoredSite struct {
	ID         string
	RunID      string
	File       string
	Location   string
	Transform  string
	Operand    string
	Key        string
	Status     string
	Decoded    string
	ObservedAt time.Time
}

// GetSitesByRun returns every decode site persisted for one run, oldest
// first.
func (s *Store) GetSitesByRun(ctx context.Context, runID string) ([]StoredSite, error) {
	query := `
        SELECT id, run_id, file, location, transform, operand, key_value, status, decoded, observed_at
        FROM decode_sites
        WHERE run_id = $1
        ORDER BY observed_at ASC, file ASC;
    `
	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decode sites: %w", err)
	}
	defer rows.Close()

	var sites []StoredSite
	for rows.Next() {
		var site StoredSite
		if err := rows.Scan(
			&site.ID, &site.RunID, &site.File, &site.Location,
			&site.Transform, &site.Operand, &site.Key,
			&site.Status, &site.Decoded, &site.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decode site row: %w", err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return sites, nil
}

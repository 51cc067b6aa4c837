package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/brand-audit/internal/report"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS shared_reports (
		short_id        TEXT PRIMARY KEY,
		audit_result    JSONB NOT NULL,
		lighthouse_data JSONB,
		website         TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at      TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shared_reports_expires_at ON shared_reports (expires_at);
`

// PostgresStore is a PostgreSQL implementation of report.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed report store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the shared_reports table and its expiry index when missing.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresSchema)

	return err
}

func (p *PostgresStore) Insert(ctx context.Context, r *report.SharedReport) error {
	query := `
		INSERT INTO shared_reports (short_id, audit_result, lighthouse_data, website, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (short_id) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(r.ShortID),
		[]byte(r.AuditResult),
		nullableJSON(r.LighthouseData),
		r.Website,
		r.CreatedAt,
		r.ExpiresAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return report.ErrDuplicateID
	}

	return nil
}

func (p *PostgresStore) Exists(ctx context.Context, id report.ShortID) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shared_reports WHERE short_id = $1)`,
		string(id),
	).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) Get(ctx context.Context, id report.ShortID) (*report.SharedReport, error) {
	query := `
		SELECT short_id, audit_result, lighthouse_data, website, created_at, expires_at
		FROM shared_reports
		WHERE short_id = $1
	`

	var (
		r          report.SharedReport
		shortID    string
		audit      []byte
		lighthouse []byte
	)

	err := p.pool.QueryRow(ctx, query, string(id)).Scan(
		&shortID,
		&audit,
		&lighthouse,
		&r.Website,
		&r.CreatedAt,
		&r.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrNotFound
		}

		return nil, err
	}

	r.ShortID = report.ShortID(shortID)
	r.AuditResult = audit
	r.LighthouseData = lighthouse

	return &r, nil
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM shared_reports WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresStore) Stats(ctx context.Context, now time.Time) (report.Stats, error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE expires_at >= $1)
		FROM shared_reports
	`

	var stats report.Stats

	if err := p.pool.QueryRow(ctx, query, now).Scan(&stats.Total, &stats.Active); err != nil {
		return report.Stats{}, err
	}

	stats.Expired = stats.Total - stats.Active

	return stats, nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	return raw
}

var (
	_ report.Repository = (*PostgresStore)(nil)
	_ report.Pinger     = (*PostgresStore)(nil)
)

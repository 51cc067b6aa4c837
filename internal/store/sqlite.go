package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/brand-audit/internal/report"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Timestamps are stored as unix nanoseconds so range comparisons stay numeric.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS shared_reports (
		short_id        TEXT PRIMARY KEY,
		audit_result    TEXT NOT NULL,
		lighthouse_data TEXT,
		website         TEXT NOT NULL,
		created_at      INTEGER NOT NULL,
		expires_at      INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_shared_reports_expires_at ON shared_reports(expires_at);`,
}

// SQLiteStore is a SQLite implementation of report.Repository for single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, r *report.SharedReport) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shared_reports (short_id, audit_result, lighthouse_data, website, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (short_id) DO NOTHING`,
		string(r.ShortID),
		string(r.AuditResult),
		nullableText(r.LighthouseData),
		r.Website,
		r.CreatedAt.UnixNano(),
		r.ExpiresAt.UnixNano(),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return report.ErrDuplicateID
	}

	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, id report.ShortID) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM shared_reports WHERE short_id = ?)`,
		string(id),
	).Scan(&exists)

	return exists, err
}

func (s *SQLiteStore) Get(ctx context.Context, id report.ShortID) (*report.SharedReport, error) {
	var (
		r                    report.SharedReport
		shortID, audit       string
		lighthouse           sql.NullString
		createdAt, expiresAt int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT short_id, audit_result, lighthouse_data, website, created_at, expires_at
		FROM shared_reports
		WHERE short_id = ?`,
		string(id),
	).Scan(&shortID, &audit, &lighthouse, &r.Website, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, report.ErrNotFound
		}

		return nil, err
	}

	r.ShortID = report.ShortID(shortID)
	r.AuditResult = []byte(audit)

	if lighthouse.Valid {
		r.LighthouseData = []byte(lighthouse.String)
	}

	r.CreatedAt = time.Unix(0, createdAt)
	r.ExpiresAt = time.Unix(0, expiresAt)

	return &r, nil
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shared_reports WHERE expires_at < ?`, now.UnixNano())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (s *SQLiteStore) Stats(ctx context.Context, now time.Time) (report.Stats, error) {
	var stats report.Stats

	err := s.db.QueryRowContext(ctx, `
		SELECT count(*), count(CASE WHEN expires_at >= ? THEN 1 END)
		FROM shared_reports`,
		now.UnixNano(),
	).Scan(&stats.Total, &stats.Active)
	if err != nil {
		return report.Stats{}, err
	}

	stats.Expired = stats.Total - stats.Active

	return stats, nil
}

// Ping checks that the database file is still usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database handle.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

func nullableText(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	return string(raw)
}

var (
	_ report.Repository = (*SQLiteStore)(nil)
	_ report.Pinger     = (*SQLiteStore)(nil)
)

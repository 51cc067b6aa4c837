package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/brand-audit/internal/metrics"
	"go.uber.org/zap"
)

// Config holds the tunables of the share link subsystem.
type Config struct {
	Retention   time.Duration
	IDLength    int
	Alphabet    string
	MaxAttempts int
}

// DefaultConfig returns a 30 day retention, 6 character IDs over DefaultAlphabet
// and a budget of 10 attempts.
func DefaultConfig() Config {
	return Config{
		Retention:   30 * 24 * time.Hour,
		IDLength:    6,
		Alphabet:    DefaultAlphabet,
		MaxAttempts: 10,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Retention <= 0:
		return fmt.Errorf("retention must be positive, got %s", c.Retention)
	case c.IDLength <= 0:
		return fmt.Errorf("short id length must be positive, got %d", c.IDLength)
	case len(c.Alphabet) < 2:
		return fmt.Errorf("short id alphabet needs at least 2 symbols, got %q", c.Alphabet)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}

	return nil
}

// IssueRequest is the input of Issue.
type IssueRequest struct {
	AuditResult    json.RawMessage
	LighthouseData json.RawMessage
	Website        string
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests that need to move past an expiration.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics records issuance, resolution and sweep outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service issues, resolves and sweeps shared reports.
type Service struct {
	repo     Repository
	generate IDGenerator
	cfg      Config
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a Service. generate must produce IDs matching cfg.IDLength and cfg.Alphabet.
func NewService(repo Repository, generate IDGenerator, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		generate: generate,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Config returns the configuration the service runs with.
func (s *Service) Config() Config {
	return s.cfg
}

// IsUnique reports whether no report, live or expired, uses id.
func (s *Service) IsUnique(ctx context.Context, id ShortID) (bool, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, storeError("exists", id, err)
	}

	return !exists, nil
}

// Issue stores a new report under a fresh short ID.
// Every call creates a new row; identical payloads are not deduplicated.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*SharedReport, error) {
	if err := ValidatePayload(req.AuditResult, req.Website); err != nil {
		return nil, err
	}

	lighthouse := req.LighthouseData
	if isAbsentJSON(lighthouse) {
		lighthouse = nil
	}

	report, attempts, err := retryBounded(s.cfg.MaxAttempts, func(int) (*SharedReport, bool, error) {
		return s.tryInsert(ctx, req.AuditResult, lighthouse, req.Website)
	})
	if err != nil {
		if errors.Is(err, ErrExhaustedRetries) {
			s.inc(func(m *metrics.Metrics) { m.RetriesExhausted.Inc() })
			s.logger.Error("short id retries exhausted, check the random source",
				zap.Int("attempts", attempts),
				zap.Int("idLength", s.cfg.IDLength),
			)
		}

		return nil, err
	}

	s.inc(func(m *metrics.Metrics) { m.ReportsIssued.Inc() })
	s.logger.Debug("report shared",
		zap.String("shortId", string(report.ShortID)),
		zap.Int("attempts", attempts),
	)

	return report, nil
}

func (s *Service) tryInsert(
	ctx context.Context, auditResult, lighthouse json.RawMessage, website string,
) (*SharedReport, bool, error) {
	id := ShortID(s.generate())

	unique, err := s.IsUnique(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if !unique {
		s.inc(func(m *metrics.Metrics) { m.IDCollisions.Inc() })

		return nil, false, nil
	}

	now := s.now()
	report := &SharedReport{
		ShortID:        id,
		AuditResult:    auditResult,
		LighthouseData: lighthouse,
		Website:        website,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.cfg.Retention),
	}

	if err := s.repo.Insert(ctx, report); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			s.inc(func(m *metrics.Metrics) { m.IDCollisions.Inc() })

			return nil, false, nil
		}

		return nil, false, storeError("insert", id, err)
	}

	return report, true, nil
}

// Resolve returns the active report for id.
// It fails with ErrNotFound for unknown IDs and ErrExpired for reports past their expiration.
func (s *Service) Resolve(ctx context.Context, id ShortID) (*SharedReport, error) {
	if id == "" {
		return nil, validationError("token")
	}

	if !s.ValidID(id) {
		s.recordResolution(metrics.OutcomeNotFound)

		return nil, ErrNotFound
	}

	report, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.recordResolution(metrics.OutcomeNotFound)

			return nil, ErrNotFound
		}

		s.recordResolution(metrics.OutcomeError)

		return nil, storeError("get", id, err)
	}

	if report.ExpiredAt(s.now()) {
		s.recordResolution(metrics.OutcomeExpired)

		return nil, ErrExpired
	}

	s.recordResolution(metrics.OutcomeOK)

	return report, nil
}

// Sweep deletes every expired report and returns the number of deleted rows.
// A partial failure still reports the rows the store managed to delete.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if deleted > 0 {
		s.inc(func(m *metrics.Metrics) { m.ReportsSwept.Add(float64(deleted)) })
	}

	if err != nil {
		return deleted, storeError("delete expired", "", err)
	}

	s.logger.Info("swept expired reports", zap.Int64("deleted", deleted))

	return deleted, nil
}

// Stats reports total, active and expired row counts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		return Stats{}, storeError("stats", "", err)
	}

	return stats, nil
}

// ShareURL builds the public link for a report.
func ShareURL(origin string, id ShortID) string {
	return fmt.Sprintf("%s/report/%s", strings.TrimRight(origin, "/"), id)
}

// ValidID reports whether id has the configured length and only uses symbols
// of the configured alphabet. Anything else can never name a stored report.
func (s *Service) ValidID(id ShortID) bool {
	if len(id) != s.cfg.IDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		if strings.IndexByte(s.cfg.Alphabet, id[i]) < 0 {
			return false
		}
	}

	return true
}

func (s *Service) recordResolution(outcome string) {
	s.inc(func(m *metrics.Metrics) { m.Resolutions.WithLabelValues(outcome).Inc() })
}

func (s *Service) inc(fn func(m *metrics.Metrics)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}

// ValidatePayload checks the fields a shared report cannot do without. The audit
// result is only required to be present and to be a JSON object; its contents
// are never inspected, so an empty object is accepted.
func ValidatePayload(auditResult json.RawMessage, website string) error {
	if strings.TrimSpace(website) == "" {
		return validationError("website")
	}

	if isAbsentJSON(auditResult) {
		return validationError("auditResult")
	}

	if bytes.TrimSpace(auditResult)[0] != '{' {
		return fmt.Errorf("%w: auditResult must be a JSON object", ErrValidation)
	}

	return nil
}

func isAbsentJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

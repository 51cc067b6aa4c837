package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/brand-audit/internal/report"
)

// RedisCacheRepository wraps a report.Repository with Redis caching for reads.
// Cached entries never outlive the report's expiration, and every row the
// sweeper deletes is already expired, so the cache cannot resurrect a deleted
// active report.
type RedisCacheRepository struct {
	store  report.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(store report.Repository, client *redis.Client, ttl time.Duration) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "report:",
		ttl:    ttl,
		now:    time.Now,
	}
}

// Insert stores the report in the underlying store and then caches it.
func (r *RedisCacheRepository) Insert(ctx context.Context, rep *report.SharedReport) error {
	if err := r.store.Insert(ctx, rep); err != nil {
		return err
	}

	r.cacheReport(ctx, rep)

	return nil
}

// Exists answers from the cache when the ID is cached and from the store otherwise.
func (r *RedisCacheRepository) Exists(ctx context.Context, id report.ShortID) (bool, error) {
	if n, err := r.client.Exists(ctx, r.key(id)).Result(); err == nil && n > 0 {
		return true, nil
	}

	return r.store.Exists(ctx, id)
}

// Get retrieves a report by short ID, checking the cache first.
func (r *RedisCacheRepository) Get(ctx context.Context, id report.ShortID) (*report.SharedReport, error) {
	if rep, err := r.getFromCache(ctx, id); err == nil {
		return rep, nil
	}

	rep, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheReport(ctx, rep)

	return rep, nil
}

// DeleteExpired is delegated; cached copies expire on their own TTL.
func (r *RedisCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.store.DeleteExpired(ctx, now)
}

func (r *RedisCacheRepository) Stats(ctx context.Context, now time.Time) (report.Stats, error) {
	return r.store.Stats(ctx, now)
}

// Ping checks the underlying store when it supports it.
func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	if p, ok := r.store.(report.Pinger); ok {
		return p.Ping(ctx)
	}

	return nil
}

func (r *RedisCacheRepository) key(id report.ShortID) string {
	return r.prefix + string(id)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, id report.ShortID) (*report.SharedReport, error) {
	result, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, report.ErrNotFound
	}

	rep := &report.SharedReport{
		ShortID:     id,
		AuditResult: []byte(result["audit_result"]),
		Website:     result["website"],
		CreatedAt:   parseNanos(result["created_at"]),
		ExpiresAt:   parseNanos(result["expires_at"]),
	}

	if lh := result["lighthouse_data"]; lh != "" {
		rep.LighthouseData = []byte(lh)
	}

	return rep, nil
}

func (r *RedisCacheRepository) cacheReport(ctx context.Context, rep *report.SharedReport) {
	ttl := r.ttl
	if remaining := rep.ExpiresAt.Sub(r.now()); remaining < ttl {
		ttl = remaining
	}

	if ttl <= 0 {
		return
	}

	key := r.key(rep.ShortID)
	pipe := r.client.Pipeline()

	pipe.HSet(ctx, key, map[string]interface{}{
		"audit_result":    string(rep.AuditResult),
		"lighthouse_data": string(rep.LighthouseData),
		"website":         rep.Website,
		"created_at":      rep.CreatedAt.UnixNano(),
		"expires_at":      rep.ExpiresAt.UnixNano(),
	})
	pipe.Expire(ctx, key, ttl)

	_, _ = pipe.Exec(ctx)
}

func parseNanos(s string) time.Time {
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(0, nanos)
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

var _ report.Repository = (*RedisCacheRepository)(nil)

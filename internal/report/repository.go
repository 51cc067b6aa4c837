package report

import (
	"context"
	"time"
)

// Repository persists shared reports.
//
// Implementations translate their backend's "no rows" condition into ErrNotFound
// and primary key conflicts into ErrDuplicateID. Any other error is returned as is.
type Repository interface {
	Insert(ctx context.Context, r *SharedReport) error
	Exists(ctx context.Context, id ShortID) (bool, error)
	Get(ctx context.Context, id ShortID) (*SharedReport, error)

	// DeleteExpired removes every report whose expiration is before now and
	// returns how many rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Stats counts all rows, treating expires_at >= now as active.
	Stats(ctx context.Context, now time.Time) (Stats, error)
}

// Pinger is implemented by repositories that can report backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

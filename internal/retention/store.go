package retention

import (
	"context"
	"time"
)

// Store defines the storage operations required by the retention manager.
type Store interface {
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

package scheduler

import (
	"context"

	"github.com/fourohfour/notfound-tracker/internal/retention"
)

// Cleaner abstracts the retention service from the scheduler engine.
type Cleaner interface {
	Cleanup(ctx context.Context, opts retention.Options) (retention.Result, error)
}

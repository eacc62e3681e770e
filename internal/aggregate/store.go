package aggregate

import (
	"context"
	"time"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

// Store defines the read/delete operations required by the aggregation
// engine.
type Store interface {
	ListGroups(ctx context.Context, query models.GroupQuery) ([]models.AggregatedGroup, int64, error)
	FindByDomainAndPath(ctx context.Context, domain, path string) ([]models.NotFoundEvent, error)
	GroupStats(ctx context.Context, domain, path string) (*models.GroupStats, error)
	DailyCounts(ctx context.Context, domain, path string, since time.Time) (map[string]int64, error)
	DeleteByDomainAndPath(ctx context.Context, domain, path string) (int64, error)
}

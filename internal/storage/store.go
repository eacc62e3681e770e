package storage

import (
	"context"
	"time"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

// Store is the full persistence contract for not-found events. MySQL backs
// the API and worker; SQLite backs the admin CLI and the storage tests.
type Store interface {
	InitSchema(ctx context.Context) error
	AppendEvent(ctx context.Context, event *models.NotFoundEvent) (int64, error)
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error)
	DeleteByPath(ctx context.Context, path string) error
	DeleteByPathAndDomain(ctx context.Context, path, domain string) error
	DeleteByDomainAndPath(ctx context.Context, domain, path string) (int64, error)
	FindByDomainAndPath(ctx context.Context, domain, path string) ([]models.NotFoundEvent, error)
	ListGroups(ctx context.Context, query models.GroupQuery) ([]models.AggregatedGroup, int64, error)
	GroupStats(ctx context.Context, domain, path string) (*models.GroupStats, error)
	DailyCounts(ctx context.Context, domain, path string, since time.Time) (map[string]int64, error)
	Stats(ctx context.Context) (*models.StoreStats, error)
	Close() error
}

package aggregate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
	"github.com/fourohfour/notfound-tracker/pkg/clock"
)

const (
	// DefaultPageSize is the grouped-listing page size; grid contexts may
	// request 10 instead.
	DefaultPageSize = 20
	maxPageSize     = 100

	// DefaultWindowDays is the trailing window of the detail time series.
	DefaultWindowDays = 30
)

// Service computes grouped statistics over the raw event log.
type Service struct {
	store  Store
	logger logging.Logger
	clock  clock.Clock
}

// NewService creates an aggregation service.
func NewService(store Store, logger logging.Logger) *Service {
	return NewServiceWithClock(store, logger, clock.RealClock{})
}

// NewServiceWithClock creates an aggregation service with an injected clock
// for deterministic tests.
func NewServiceWithClock(store Store, logger logging.Logger, clk clock.Clock) *Service {
	return &Service{
		store:  store,
		logger: logger,
		clock:  clk,
	}
}

// ListGroups returns a page of aggregated (domain, path) groups. Filters on
// domain, path, and count bounds act on the aggregated groups; pagination
// totals reflect the filtered set, not the raw event count.
func (s *Service) ListGroups(ctx context.Context, query models.GroupQuery) (models.GroupListResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = DefaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	groups, total, err := s.store.ListGroups(ctx, query)
	if err != nil {
		s.logger.Error("failed to list aggregated groups",
			zap.String("domain_filter", query.Domain),
			zap.String("path_filter", query.Path),
			zap.Error(err))
		return models.GroupListResponse{}, fmt.Errorf("list groups: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(query.Limit) - 1) / int64(query.Limit))
	}

	return models.GroupListResponse{
		Items: groups,
		Pagination: models.Pagination{
			CurrentPage:  query.Page,
			PageSize:     query.Limit,
			TotalPages:   totalPages,
			TotalRecords: total,
		},
	}, nil
}

// GroupDetail returns the raw events of one group (newest first), its
// summary stats, and a zero-filled daily series covering the trailing
// window. Returns nil when the group has no events.
func (s *Service) GroupDetail(ctx context.Context, domain, path string, windowDays int) (*models.GroupDetailResponse, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	stats, err := s.store.GroupStats(ctx, domain, path)
	if err != nil {
		return nil, fmt.Errorf("group detail stats: %w", err)
	}
	if stats == nil {
		return nil, nil
	}

	events, err := s.store.FindByDomainAndPath(ctx, domain, path)
	if err != nil {
		return nil, fmt.Errorf("group detail events: %w", err)
	}

	today := startOfDay(s.clock.Now().UTC())
	windowStart := today.AddDate(0, 0, -windowDays)

	counts, err := s.store.DailyCounts(ctx, domain, path, windowStart)
	if err != nil {
		return nil, fmt.Errorf("group detail series: %w", err)
	}

	// Exactly windowDays+1 points, oldest first, zeros where no events
	// landed.
	series := make([]models.SeriesPoint, 0, windowDays+1)
	for day := windowStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		series = append(series, models.SeriesPoint{
			Date:  date,
			Count: counts[date],
		})
	}

	return &models.GroupDetailResponse{
		Domain: domain,
		Path:   path,
		Events: events,
		Stats:  *stats,
		Series: series,
	}, nil
}

// DeleteGroup removes every event of one (domain, path) group and returns
// the deleted count.
func (s *Service) DeleteGroup(ctx context.Context, domain, path string) (int64, error) {
	deleted, err := s.store.DeleteByDomainAndPath(ctx, domain, path)
	if err != nil {
		s.logger.Error("failed to delete group",
			zap.String("domain", domain),
			zap.String("path", path),
			zap.Error(err))
		return 0, fmt.Errorf("delete group: %w", err)
	}

	s.logger.Info("deleted group",
		zap.String("domain", domain),
		zap.String("path", path),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

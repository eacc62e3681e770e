package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

// FakeNotFoundStore is an in-memory event store covering the capture,
// aggregation, retention, and redirect-sync seams. Set FailNext to make
// the next call return FailError.
type FakeNotFoundStore struct {
	mu     sync.Mutex
	nextID int64
	events []models.NotFoundEvent

	FailNext  bool
	FailError error
}

func NewFakeNotFoundStore() *FakeNotFoundStore {
	return &FakeNotFoundStore{}
}

func (f *FakeNotFoundStore) failing() error {
	if f.FailNext {
		f.FailNext = false
		if f.FailError != nil {
			return f.FailError
		}
		return ErrStoreFailure
	}
	return nil
}

func (f *FakeNotFoundStore) InitSchema(_ context.Context) error { return nil }

func (f *FakeNotFoundStore) AppendEvent(_ context.Context, event *models.NotFoundEvent) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return 0, err
	}
	f.nextID++
	ev := *event
	ev.ID = f.nextID
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	f.events = append(f.events, ev)
	return ev.ID, nil
}

func (f *FakeNotFoundStore) CountOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return 0, err
	}
	var count int64
	for _, ev := range f.events {
		if ev.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (f *FakeNotFoundStore) DeleteOlderThan(_ context.Context, cutoff time.Time, limit int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return 0, err
	}
	// Oldest first, like the real DELETE ... ORDER BY created_at LIMIT.
	sort.SliceStable(f.events, func(i, j int) bool {
		return f.events[i].CreatedAt.Before(f.events[j].CreatedAt)
	})
	var deleted int64
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.CreatedAt.Before(cutoff) && deleted < int64(limit) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	f.events = kept
	return deleted, nil
}

func (f *FakeNotFoundStore) DeleteByPath(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return err
	}
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.URLPath != path {
			kept = append(kept, ev)
		}
	}
	f.events = kept
	return nil
}

func (f *FakeNotFoundStore) DeleteByPathAndDomain(_ context.Context, path, domain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return err
	}
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.URLPath != path || ev.URLDomain != domain {
			kept = append(kept, ev)
		}
	}
	f.events = kept
	return nil
}

func (f *FakeNotFoundStore) DeleteByDomainAndPath(_ context.Context, domain, path string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return 0, err
	}
	var deleted int64
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.URLDomain == domain && ev.URLPath == path {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	f.events = kept
	return deleted, nil
}

func (f *FakeNotFoundStore) FindByDomainAndPath(_ context.Context, domain, path string) ([]models.NotFoundEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	out := make([]models.NotFoundEvent, 0)
	for _, ev := range f.events {
		if ev.URLDomain == domain && ev.URLPath == path {
			out = append(out, ev)
		}
	}
	// Newest first, matching the detail view ordering.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *FakeNotFoundStore) ListGroups(_ context.Context, query models.GroupQuery) ([]models.AggregatedGroup, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, 0, err
	}

	type groupKey struct{ domain, path string }
	acc := make(map[groupKey]*groupAcc)
	order := make([]groupKey, 0)
	for _, ev := range f.events {
		key := groupKey{ev.URLDomain, ev.URLPath}
		g, ok := acc[key]
		if !ok {
			g = &groupAcc{
				group: models.AggregatedGroup{
					URLDomain:       ev.URLDomain,
					URLPath:         ev.URLPath,
					FirstOccurrence: ev.CreatedAt,
					LastOccurrence:  ev.CreatedAt,
				},
				firstID: ev.ID,
			}
			acc[key] = g
			order = append(order, key)
		}
		g.group.Count++
		if ev.CreatedAt.Before(g.group.FirstOccurrence) {
			g.group.FirstOccurrence = ev.CreatedAt
		}
		if ev.CreatedAt.After(g.group.LastOccurrence) {
			g.group.LastOccurrence = ev.CreatedAt
		}
		if ev.ID < g.firstID {
			g.firstID = ev.ID
		}
	}

	groups := make([]groupAcc, 0, len(order))
	for _, key := range order {
		g := *acc[key]
		if query.Domain != "" && !strings.Contains(strings.ToLower(g.group.URLDomain), strings.ToLower(query.Domain)) {
			continue
		}
		if query.Path != "" && !strings.Contains(strings.ToLower(g.group.URLPath), strings.ToLower(query.Path)) {
			continue
		}
		if query.MinCount != nil && g.group.Count < *query.MinCount {
			continue
		}
		if query.MaxCount != nil && g.group.Count > *query.MaxCount {
			continue
		}
		groups = append(groups, g)
	}

	sortGroups(groups, query)

	total := int64(len(groups))

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	start := (page - 1) * limit
	if start > len(groups) {
		start = len(groups)
	}
	end := start + limit
	if end > len(groups) {
		end = len(groups)
	}

	out := make([]models.AggregatedGroup, 0, end-start)
	for _, g := range groups[start:end] {
		out = append(out, g.group)
	}
	return out, total, nil
}

// groupAcc pairs an aggregate with the lowest event ID in the group, the
// deterministic tie-break the real stores use.
type groupAcc struct {
	group   models.AggregatedGroup
	firstID int64
}

func sortGroups(groups []groupAcc, query models.GroupQuery) {
	cmp := func(a, b models.AggregatedGroup) int {
		switch query.Sort {
		case models.SortByDomain:
			return strings.Compare(a.URLDomain, b.URLDomain)
		case models.SortByPath:
			return strings.Compare(a.URLPath, b.URLPath)
		case models.SortByLastOccurrence:
			switch {
			case a.LastOccurrence.Before(b.LastOccurrence):
				return -1
			case a.LastOccurrence.After(b.LastOccurrence):
				return 1
			}
			return 0
		default:
			switch {
			case a.Count < b.Count:
				return -1
			case a.Count > b.Count:
				return 1
			}
			return 0
		}
	}

	descending := query.Order == models.SortDesc
	if query.Order == "" {
		// Count sorts descending by default, everything else ascending.
		descending = query.Sort == "" || query.Sort == models.SortByCount
	}

	sort.SliceStable(groups, func(i, j int) bool {
		c := cmp(groups[i].group, groups[j].group)
		if c == 0 {
			return groups[i].firstID < groups[j].firstID
		}
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func (f *FakeNotFoundStore) GroupStats(_ context.Context, domain, path string) (*models.GroupStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	var stats *models.GroupStats
	for _, ev := range f.events {
		if ev.URLDomain != domain || ev.URLPath != path {
			continue
		}
		if stats == nil {
			stats = &models.GroupStats{
				FirstOccurrence: ev.CreatedAt,
				LastOccurrence:  ev.CreatedAt,
			}
		}
		stats.TotalCount++
		if ev.CreatedAt.Before(stats.FirstOccurrence) {
			stats.FirstOccurrence = ev.CreatedAt
		}
		if ev.CreatedAt.After(stats.LastOccurrence) {
			stats.LastOccurrence = ev.CreatedAt
		}
	}
	return stats, nil
}

func (f *FakeNotFoundStore) DailyCounts(_ context.Context, domain, path string, since time.Time) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, ev := range f.events {
		if ev.URLDomain != domain || ev.URLPath != path {
			continue
		}
		if ev.CreatedAt.Before(since) {
			continue
		}
		counts[ev.CreatedAt.UTC().Format("2006-01-02")]++
	}
	return counts, nil
}

func (f *FakeNotFoundStore) Stats(_ context.Context) (*models.StoreStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	stats := &models.StoreStats{TotalEvents: int64(len(f.events))}
	groups := make(map[string]bool)
	for _, ev := range f.events {
		groups[ev.URLDomain+"\x00"+ev.URLPath] = true
		created := ev.CreatedAt
		if stats.OldestEvent == nil || created.Before(*stats.OldestEvent) {
			t := created
			stats.OldestEvent = &t
		}
		if stats.NewestEvent == nil || created.After(*stats.NewestEvent) {
			t := created
			stats.NewestEvent = &t
		}
	}
	stats.TotalGroups = int64(len(groups))
	return stats, nil
}

func (f *FakeNotFoundStore) Close() error { return nil }

// Events returns a copy of the stored events for assertions.
func (f *FakeNotFoundStore) Events() []models.NotFoundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.NotFoundEvent, len(f.events))
	copy(out, f.events)
	return out
}

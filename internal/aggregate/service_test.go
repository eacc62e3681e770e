package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
	"github.com/fourohfour/notfound-tracker/internal/testutil/fakes"
	"github.com/fourohfour/notfound-tracker/pkg/clock"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newAggregateService(store *fakes.FakeNotFoundStore) *Service {
	return NewServiceWithClock(store, logging.NewNoOpLogger(), clock.NewFixed(testNow))
}

func seedEvents(t *testing.T, store *fakes.FakeNotFoundStore, domain, path string, times ...time.Time) {
	t.Helper()
	for _, at := range times {
		_, err := store.AppendEvent(context.Background(), &models.NotFoundEvent{
			URLDomain: domain,
			URLPath:   path,
			CreatedAt: at,
		})
		require.NoError(t, err)
	}
}

func TestListGroups_AggregatesByDomainAndPath(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvents(t, store, "shop.example.com", "/old-page",
		testNow.AddDate(0, 0, -3), testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, -2))
	seedEvents(t, store, "shop.example.com", "/other", testNow.AddDate(0, 0, -2))

	svc := newAggregateService(store)
	resp, err := svc.ListGroups(context.Background(), models.GroupQuery{})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	// Default sort is count descending.
	assert.Equal(t, "/old-page", resp.Items[0].URLPath)
	assert.Equal(t, int64(3), resp.Items[0].Count)
	assert.Equal(t, testNow.AddDate(0, 0, -3), resp.Items[0].FirstOccurrence)
	assert.Equal(t, testNow.AddDate(0, 0, -1), resp.Items[0].LastOccurrence)
	assert.Equal(t, int64(2), resp.Pagination.TotalRecords)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestListGroups_CountFiltersActOnGroups(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	for i, count := range []int{1, 3, 5} {
		path := []string{"/one", "/three", "/five"}[i]
		for j := 0; j < count; j++ {
			seedEvents(t, store, "shop.example.com", path, testNow.Add(-time.Duration(j)*time.Hour))
		}
	}

	svc := newAggregateService(store)

	minCount := int64(2)
	resp, err := svc.ListGroups(context.Background(), models.GroupQuery{MinCount: &minCount})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "/five", resp.Items[0].URLPath)
	assert.Equal(t, "/three", resp.Items[1].URLPath)

	maxCount := int64(3)
	resp, err = svc.ListGroups(context.Background(), models.GroupQuery{MinCount: &minCount, MaxCount: &maxCount})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "/three", resp.Items[0].URLPath)
}

func TestListGroups_DomainFilterIsCaseInsensitiveSubstring(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvents(t, store, "Shop.Example.com", "/a", testNow)
	seedEvents(t, store, "test.local", "/b", testNow)

	svc := newAggregateService(store)
	resp, err := svc.ListGroups(context.Background(), models.GroupQuery{Domain: "example"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Shop.Example.com", resp.Items[0].URLDomain)
}

func TestListGroups_Pagination(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	paths := []string{"/a", "/b", "/c", "/d", "/e"}
	for i, path := range paths {
		// Descending counts 5..1 give a deterministic order.
		for j := 0; j < len(paths)-i; j++ {
			seedEvents(t, store, "shop.example.com", path, testNow.Add(-time.Duration(j)*time.Minute))
		}
	}

	svc := newAggregateService(store)
	resp, err := svc.ListGroups(context.Background(), models.GroupQuery{Page: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "/c", resp.Items[0].URLPath)
	assert.Equal(t, "/d", resp.Items[1].URLPath)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 2, resp.Pagination.PageSize)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, int64(5), resp.Pagination.TotalRecords)
}

func TestListGroups_DefaultsAndLimitCap(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvents(t, store, "shop.example.com", "/a", testNow)

	svc := newAggregateService(store)

	resp, err := svc.ListGroups(context.Background(), models.GroupQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)
	assert.Equal(t, DefaultPageSize, resp.Pagination.PageSize)

	resp, err = svc.ListGroups(context.Background(), models.GroupQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Pagination.PageSize)
}

func TestGroupDetail_SeriesIsZeroFilled(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvents(t, store, "shop.example.com", "/old-page",
		testNow.AddDate(0, 0, -2),
		testNow.AddDate(0, 0, -2).Add(time.Hour),
		testNow)

	svc := newAggregateService(store)
	detail, err := svc.GroupDetail(context.Background(), "shop.example.com", "/old-page", 7)
	require.NoError(t, err)
	require.NotNil(t, detail)

	// One point per day, oldest first, window plus today.
	require.Len(t, detail.Series, 8)
	assert.Equal(t, testNow.AddDate(0, 0, -7).Format("2006-01-02"), detail.Series[0].Date)
	assert.Equal(t, testNow.Format("2006-01-02"), detail.Series[7].Date)

	byDate := make(map[string]int64)
	for _, point := range detail.Series {
		byDate[point.Date] = point.Count
	}
	assert.Equal(t, int64(2), byDate[testNow.AddDate(0, 0, -2).Format("2006-01-02")])
	assert.Equal(t, int64(1), byDate[testNow.Format("2006-01-02")])
	assert.Equal(t, int64(0), byDate[testNow.AddDate(0, 0, -5).Format("2006-01-02")])
}

func TestGroupDetail_StatsAndEventOrder(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvents(t, store, "shop.example.com", "/old-page",
		testNow.AddDate(0, 0, -5), testNow.AddDate(0, 0, -1))

	svc := newAggregateService(store)
	detail, err := svc.GroupDetail(context.Background(), "shop.example.com", "/old-page", 0)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, int64(2), detail.Stats.TotalCount)
	assert.Equal(t, testNow.AddDate(0, 0, -5), detail.Stats.FirstOccurrence)
	assert.Equal(t, testNow.AddDate(0, 0, -1), detail.Stats.LastOccurrence)

	// Newest first.
	require.Len(t, detail.Events, 2)
	assert.Equal(t, testNow.AddDate(0, 0, -1), detail.Events[0].CreatedAt)

	// Zero window falls back to the default.
	assert.Len(t, detail.Series, DefaultWindowDays+1)
}

func TestGroupDetail_UnknownGroupReturnsNil(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	svc := newAggregateService(store)

	detail, err := svc.GroupDetail(context.Background(), "shop.example.com", "/nope", 7)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestDeleteGroup_RemovesOnlyThatGroup(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvents(t, store, "shop.example.com", "/old-page", testNow, testNow.Add(-time.Hour))
	seedEvents(t, store, "shop.example.com", "/keep", testNow)

	svc := newAggregateService(store)
	deleted, err := svc.DeleteGroup(context.Background(), "shop.example.com", "/old-page")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/keep", events[0].URLPath)
}

func TestDeleteGroup_StoreErrorPropagates(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	store.FailNext = true

	svc := newAggregateService(store)
	_, err := svc.DeleteGroup(context.Background(), "shop.example.com", "/old-page")
	assert.Error(t, err)
}

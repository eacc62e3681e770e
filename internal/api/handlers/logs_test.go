package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourohfour/notfound-tracker/internal/aggregate"
	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
	"github.com/fourohfour/notfound-tracker/internal/testutil/fakes"
)

func newLogsRouter(t *testing.T, store *fakes.FakeNotFoundStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := aggregate.NewService(store, logging.NewNoOpLogger())
	handler := NewLogsHandler(logging.NewNoOpLogger(), svc)

	router := gin.New()
	router.GET("/api/v1/logs", handler.ListGroups)
	router.GET("/api/v1/logs/detail", handler.GroupDetail)
	router.DELETE("/api/v1/logs", handler.DeleteGroup)
	return router
}

func seedGroup(t *testing.T, store *fakes.FakeNotFoundStore, domain, path string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := store.AppendEvent(context.Background(), &models.NotFoundEvent{
			URLDomain: domain,
			URLPath:   path,
			CreatedAt: time.Now().UTC().Add(-time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
}

func TestListGroups_ReturnsAggregatedPage(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedGroup(t, store, "shop.example.com", "/popular", 3)
	seedGroup(t, store, "shop.example.com", "/rare", 1)

	router := newLogsRouter(t, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var wrapper struct {
		Data models.GroupListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	require.Len(t, wrapper.Data.Items, 2)
	assert.Equal(t, "/popular", wrapper.Data.Items[0].URLPath)
	assert.Equal(t, int64(3), wrapper.Data.Items[0].Count)
	assert.Equal(t, int64(2), wrapper.Data.Pagination.TotalRecords)
}

func TestListGroups_FiltersViaQueryParams(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedGroup(t, store, "shop.example.com", "/popular", 3)
	seedGroup(t, store, "shop.example.com", "/rare", 1)

	router := newLogsRouter(t, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs?min_count=2", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var wrapper struct {
		Data models.GroupListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	require.Len(t, wrapper.Data.Items, 1)
	assert.Equal(t, "/popular", wrapper.Data.Items[0].URLPath)
}

func TestListGroups_InvalidSortReturns400(t *testing.T) {
	router := newLogsRouter(t, fakes.NewFakeNotFoundStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs?sort=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit=9999", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupDetail_ReturnsEventsStatsAndSeries(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedGroup(t, store, "shop.example.com", "/old-page", 2)

	router := newLogsRouter(t, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/logs/detail?domain=shop.example.com&path=/old-page&window_days=7", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var wrapper struct {
		Data models.GroupDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	assert.Equal(t, "shop.example.com", wrapper.Data.Domain)
	assert.Equal(t, "/old-page", wrapper.Data.Path)
	assert.Len(t, wrapper.Data.Events, 2)
	assert.Equal(t, int64(2), wrapper.Data.Stats.TotalCount)
	assert.Len(t, wrapper.Data.Series, 8)
}

func TestGroupDetail_RequiresDomainAndPath(t *testing.T) {
	router := newLogsRouter(t, fakes.NewFakeNotFoundStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs/detail?domain=shop.example.com", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs/detail?path=/old-page", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupDetail_UnknownGroupReturns404(t *testing.T) {
	router := newLogsRouter(t, fakes.NewFakeNotFoundStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/logs/detail?domain=shop.example.com&path=/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroupDetail_InvalidWindowReturns400(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedGroup(t, store, "shop.example.com", "/old-page", 1)
	router := newLogsRouter(t, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/logs/detail?domain=shop.example.com&path=/old-page&window_days=zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteGroup_ReturnsDeletedCount(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedGroup(t, store, "shop.example.com", "/old-page", 3)
	seedGroup(t, store, "shop.example.com", "/keep", 1)

	router := newLogsRouter(t, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete,
		"/api/v1/logs?domain=shop.example.com&path=/old-page", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var wrapper struct {
		Data DeleteGroupResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	assert.Equal(t, int64(3), wrapper.Data.DeletedCount)
	assert.Len(t, store.Events(), 1)
}

func TestDeleteGroup_RequiresDomainAndPath(t *testing.T) {
	router := newLogsRouter(t, fakes.NewFakeNotFoundStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/logs", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

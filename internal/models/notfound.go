package models

import "time"

// SortField identifies the grouped-listing sort key.
type SortField string

const (
	SortByCount          SortField = "count"
	SortByDomain         SortField = "url_domain"
	SortByPath           SortField = "url_path"
	SortByLastOccurrence SortField = "last_occurrence"
)

// SortDirection is the sort order for grouped listings.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// NotFoundEvent represents one recorded 404 occurrence.
// Events are append/delete only; no field is ever updated after creation.
type NotFoundEvent struct {
	ID          int64     `json:"id"`
	URLDomain   string    `json:"url_domain"`
	URLPath     string    `json:"url_path"`
	QueryString *string   `json:"query_string,omitempty"` // NULL when the request had no query string
	UserAgent   *string   `json:"user_agent,omitempty"`   // NULL when the client sent no User-Agent
	CreatedAt   time.Time `json:"created_at"`
}

// AggregatedGroup is the derived per-(domain, path) aggregate. It is
// recomputed on every query and never persisted.
type AggregatedGroup struct {
	URLDomain       string    `json:"url_domain"`
	URLPath         string    `json:"url_path"`
	Count           int64     `json:"count"`
	FirstOccurrence time.Time `json:"first_occurrence"`
	LastOccurrence  time.Time `json:"last_occurrence"`
}

// GroupStats summarizes a single (domain, path) group.
type GroupStats struct {
	TotalCount      int64     `json:"total_count"`
	FirstOccurrence time.Time `json:"first_occurrence"`
	LastOccurrence  time.Time `json:"last_occurrence"`
}

// StoreStats is the store-wide summary surfaced by health and status views.
type StoreStats struct {
	TotalEvents int64      `json:"total_events"`
	TotalGroups int64      `json:"total_groups"`
	OldestEvent *time.Time `json:"oldest_event,omitempty"`
	NewestEvent *time.Time `json:"newest_event,omitempty"`
}

// GroupQuery carries grouped-listing filters, sort, and pagination.
// Domain/path filters and the count bounds act on the aggregated groups
// (HAVING semantics), never on raw event rows.
type GroupQuery struct {
	Domain   string        `form:"domain" example:"shop.example.com"`
	Path     string        `form:"path" example:"/old-page"`
	MinCount *int64        `form:"min_count" binding:"omitempty,min=0" example:"2"`
	MaxCount *int64        `form:"max_count" binding:"omitempty,min=0" example:"100"`
	Sort     SortField     `form:"sort" binding:"omitempty,oneof=count url_domain url_path last_occurrence" example:"count"`
	Order    SortDirection `form:"order" binding:"omitempty,oneof=asc desc" example:"desc"`
	Page     int           `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit    int           `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
} // @name GroupQuery

// SeriesPoint is one day of the detail-view time series.
type SeriesPoint struct {
	Date  string `json:"date" example:"2025-01-02"`
	Count int64  `json:"count" example:"3"`
} // @name SeriesPoint

// GroupListResponse is the grouped-listing payload.
type GroupListResponse struct {
	Items      []AggregatedGroup `json:"items"`
	Pagination Pagination        `json:"pagination"`
} // @name GroupListResponse

// GroupDetailResponse is the detail-view payload for one group.
type GroupDetailResponse struct {
	Domain string          `json:"domain"`
	Path   string          `json:"path"`
	Events []NotFoundEvent `json:"events"`
	Stats  GroupStats      `json:"stats"`
	Series []SeriesPoint   `json:"series"`
} // @name GroupDetailResponse

// Pagination contains pagination metadata for list responses.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
} // @name Pagination

// CaptureRequest is the capture operation input.
type CaptureRequest struct {
	Domain      string  `json:"domain" binding:"required" example:"shop.example.com"`
	Path        string  `json:"path" binding:"required" example:"/old-page"`
	QueryString *string `json:"query_string,omitempty" example:"utm_source=newsletter"`
	UserAgent   *string `json:"user_agent,omitempty" example:"Mozilla/5.0"`
} // @name CaptureRequest

// RedirectChannel is one domain-scoped channel attached to a redirect
// lifecycle event. Channels without a hostname are skipped by the sync hook.
type RedirectChannel struct {
	Code     string `json:"code" example:"WEB-EU"`
	Hostname string `json:"hostname,omitempty" example:"shop.example.com"`
} // @name RedirectChannel

// RedirectCreatedMessage is the redirect-created event consumed from the
// message bus.
type RedirectCreatedMessage struct {
	SourceURL string            `json:"source_url" example:"/old-page"`
	Channels  []RedirectChannel `json:"channels"`
} // @name RedirectCreatedMessage

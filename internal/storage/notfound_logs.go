package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

const eventColumns = "id, url_domain, url_path, query_string, user_agent, created_at"

// AppendEvent inserts a single not-found event and returns its id.
func (c *MySQLClient) AppendEvent(ctx context.Context, event *models.NotFoundEvent) (int64, error) {
	if err := validateEvent(event.URLDomain, event.URLPath); err != nil {
		return 0, err
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := c.db.ExecContext(ctx,
		`INSERT INTO not_found_events (url_domain, url_path, query_string, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.URLDomain,
		event.URLPath,
		event.QueryString,
		event.UserAgent,
		createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append event id: %w", err)
	}

	event.ID = id
	event.CreatedAt = createdAt
	return id, nil
}

// CountOlderThan returns the number of events strictly older than cutoff.
func (c *MySQLClient) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM not_found_events WHERE created_at < ?`, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count older than: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes at most limit events older than cutoff and returns
// the number actually removed. Callers loop until it returns 0.
func (c *MySQLClient) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE created_at < ? ORDER BY created_at LIMIT ?`,
		cutoff, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("delete older than: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete older than rows affected: %w", err)
	}
	return deleted, nil
}

// DeleteByPath removes all events with an exactly matching path, across every
// domain.
func (c *MySQLClient) DeleteByPath(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE url_path = ?`, path,
	); err != nil {
		return fmt.Errorf("delete by path: %w", err)
	}
	return nil
}

// DeleteByPathAndDomain removes all events matching both path and domain
// exactly.
func (c *MySQLClient) DeleteByPathAndDomain(ctx context.Context, path, domain string) error {
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE url_path = ? AND url_domain = ?`, path, domain,
	); err != nil {
		return fmt.Errorf("delete by path and domain: %w", err)
	}
	return nil
}

// DeleteByDomainAndPath removes one whole group and returns the number of
// deleted events.
func (c *MySQLClient) DeleteByDomainAndPath(ctx context.Context, domain, path string) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE url_domain = ? AND url_path = ?`, domain, path,
	)
	if err != nil {
		return 0, fmt.Errorf("delete group: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete group rows affected: %w", err)
	}
	return deleted, nil
}

// FindByDomainAndPath returns every event of one group, newest first.
func (c *MySQLClient) FindByDomainAndPath(ctx context.Context, domain, path string) ([]models.NotFoundEvent, error) {
	rows, err := c.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM not_found_events
		 WHERE url_domain = ? AND url_path = ?
		 ORDER BY created_at DESC, id DESC`, eventColumns),
		domain, path,
	)
	if err != nil {
		return nil, fmt.Errorf("find by domain and path: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListGroups aggregates events by (domain, path) and applies the query's
// filters, sort, and pagination. Filters act on the aggregated groups
// (HAVING), so min/max count bounds see the derived count, not raw rows.
// Returns the page of groups plus the size of the full filtered set.
func (c *MySQLClient) ListGroups(ctx context.Context, query models.GroupQuery) ([]models.AggregatedGroup, int64, error) {
	having, args := buildGroupHaving(query)

	grouped := fmt.Sprintf(`
		SELECT url_domain, url_path,
		       COUNT(id) AS log_count,
		       MIN(created_at) AS first_occurrence,
		       MAX(created_at) AS last_occurrence,
		       MIN(id) AS first_id
		FROM not_found_events
		GROUP BY url_domain, url_path
		%s`, having)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM (%s) AS grouped`, grouped)
	var total int64
	if err := c.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	dataQuery := fmt.Sprintf("%s ORDER BY %s, first_id ASC LIMIT ? OFFSET ?", grouped, groupOrderClause(query))
	dataArgs := append(append([]interface{}{}, args...), limit, offset)

	rows, err := c.db.QueryContext(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.AggregatedGroup, 0)
	for rows.Next() {
		var g models.AggregatedGroup
		var firstID int64
		if err := rows.Scan(&g.URLDomain, &g.URLPath, &g.Count, &g.FirstOccurrence, &g.LastOccurrence, &firstID); err != nil {
			return nil, 0, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, total, nil
}

// GroupStats returns count/first/last for one group, or nil when the group
// has no events.
func (c *MySQLClient) GroupStats(ctx context.Context, domain, path string) (*models.GroupStats, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT COUNT(id), MIN(created_at), MAX(created_at)
		 FROM not_found_events
		 WHERE url_domain = ? AND url_path = ?`,
		domain, path,
	)

	var stats models.GroupStats
	var first, last sql.NullTime
	if err := row.Scan(&stats.TotalCount, &first, &last); err != nil {
		return nil, fmt.Errorf("group stats: %w", err)
	}

	if stats.TotalCount == 0 {
		return nil, nil
	}
	stats.FirstOccurrence = first.Time
	stats.LastOccurrence = last.Time
	return &stats, nil
}

// DailyCounts returns per-day event counts for one group since the given
// time, keyed by UTC calendar date (YYYY-MM-DD). Days without events are
// absent; the aggregation service zero-fills them.
func (c *MySQLClient) DailyCounts(ctx context.Context, domain, path string, since time.Time) (map[string]int64, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS day, COUNT(*)
		 FROM not_found_events
		 WHERE url_domain = ? AND url_path = ? AND created_at >= ?
		 GROUP BY day
		 ORDER BY day ASC`,
		domain, path, since,
	)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day string
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}

	return counts, nil
}

// Stats summarizes the whole store for health and status views.
func (c *MySQLClient) Stats(ctx context.Context) (*models.StoreStats, error) {
	var stats models.StoreStats
	var oldest, newest sql.NullTime

	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM not_found_events`,
	).Scan(&stats.TotalEvents, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("store stats: %w", err)
	}

	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT 1 FROM not_found_events GROUP BY url_domain, url_path) AS g`,
	).Scan(&stats.TotalGroups)
	if err != nil {
		return nil, fmt.Errorf("store group count: %w", err)
	}

	if oldest.Valid {
		t := oldest.Time
		stats.OldestEvent = &t
	}
	if newest.Valid {
		t := newest.Time
		stats.NewestEvent = &t
	}

	return &stats, nil
}

func scanEvents(rows *sql.Rows) ([]models.NotFoundEvent, error) {
	events := make([]models.NotFoundEvent, 0)
	for rows.Next() {
		var ev models.NotFoundEvent
		var queryString, userAgent sql.NullString
		if err := rows.Scan(&ev.ID, &ev.URLDomain, &ev.URLPath, &queryString, &userAgent, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if queryString.Valid {
			ev.QueryString = &queryString.String
		}
		if userAgent.Valid {
			ev.UserAgent = &userAgent.String
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// buildGroupHaving renders the HAVING clause shared by the count and data
// queries of the grouped listing. Substring filters are lowercased on both
// sides so matching stays case-insensitive regardless of collation.
func buildGroupHaving(query models.GroupQuery) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if query.Domain != "" {
		clauses = append(clauses, "LOWER(url_domain) LIKE ?")
		args = append(args, "%"+strings.ToLower(query.Domain)+"%")
	}
	if query.Path != "" {
		clauses = append(clauses, "LOWER(url_path) LIKE ?")
		args = append(args, "%"+strings.ToLower(query.Path)+"%")
	}
	if query.MinCount != nil {
		clauses = append(clauses, "log_count >= ?")
		args = append(args, *query.MinCount)
	}
	if query.MaxCount != nil {
		clauses = append(clauses, "log_count <= ?")
		args = append(args, *query.MaxCount)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "HAVING " + strings.Join(clauses, " AND "), args
}

func groupOrderClause(query models.GroupQuery) string {
	column := "log_count"
	switch query.Sort {
	case models.SortByDomain:
		column = "url_domain"
	case models.SortByPath:
		column = "url_path"
	case models.SortByLastOccurrence:
		column = "last_occurrence"
	}

	direction := "DESC"
	if query.Sort != "" && query.Sort != models.SortByCount {
		direction = "ASC"
	}
	switch query.Order {
	case models.SortAsc:
		direction = "ASC"
	case models.SortDesc:
		direction = "DESC"
	}

	return column + " " + direction
}

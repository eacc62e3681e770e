package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

// SQLiteStore implements Store backed by a local SQLite database. It serves
// the admin CLI and the storage test suite; the SQL mirrors the MySQL
// client except where SQLite lacks a construct (DELETE ... LIMIT).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) a SQLite store at path and
// ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_loc=UTC&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn from the pool.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// InitSchema creates the events table and its indexes if they are missing.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS not_found_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url_domain TEXT NOT NULL,
			url_path TEXT NOT NULL,
			query_string TEXT,
			user_agent TEXT,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nfe_created_at ON not_found_events (created_at);
		CREATE INDEX IF NOT EXISTS idx_nfe_group ON not_found_events (url_domain, url_path);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendEvent inserts a single not-found event and returns its id.
func (s *SQLiteStore) AppendEvent(ctx context.Context, event *models.NotFoundEvent) (int64, error) {
	if err := validateEvent(event.URLDomain, event.URLPath); err != nil {
		return 0, err
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
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
func (s *SQLiteStore) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM not_found_events WHERE created_at < ?`, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count older than: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes at most limit events older than cutoff. SQLite has
// no DELETE ... LIMIT in its default build, so the batch is selected by id.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE id IN (
			SELECT id FROM not_found_events WHERE created_at < ? ORDER BY created_at LIMIT ?
		 )`,
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

// DeleteByPath removes all events with an exactly matching path.
func (s *SQLiteStore) DeleteByPath(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE url_path = ?`, path,
	); err != nil {
		return fmt.Errorf("delete by path: %w", err)
	}
	return nil
}

// DeleteByPathAndDomain removes all events matching both path and domain.
func (s *SQLiteStore) DeleteByPathAndDomain(ctx context.Context, path, domain string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM not_found_events WHERE url_path = ? AND url_domain = ?`, path, domain,
	); err != nil {
		return fmt.Errorf("delete by path and domain: %w", err)
	}
	return nil
}

// DeleteByDomainAndPath removes one whole group and returns the number of
// deleted events.
func (s *SQLiteStore) DeleteByDomainAndPath(ctx context.Context, domain, path string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
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
func (s *SQLiteStore) FindByDomainAndPath(ctx context.Context, domain, path string) ([]models.NotFoundEvent, error) {
	rows, err := s.db.QueryContext(ctx,
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

// ListGroups aggregates events by (domain, path) with HAVING-style filters,
// selectable sort, and pagination, matching the MySQL client's semantics.
func (s *SQLiteStore) ListGroups(ctx context.Context, query models.GroupQuery) ([]models.AggregatedGroup, int64, error) {
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
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
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

	rows, err := s.db.QueryContext(ctx, dataQuery, dataArgs...)
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
func (s *SQLiteStore) GroupStats(ctx context.Context, domain, path string) (*models.GroupStats, error) {
	row := s.db.QueryRowContext(ctx,
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
// time, keyed by UTC calendar date (YYYY-MM-DD).
func (s *SQLiteStore) DailyCounts(ctx context.Context, domain, path string, since time.Time) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m-%d', created_at) AS day, COUNT(*)
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
func (s *SQLiteStore) Stats(ctx context.Context) (*models.StoreStats, error) {
	var stats models.StoreStats
	var oldest, newest sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM not_found_events`,
	).Scan(&stats.TotalEvents, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("store stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT 1 FROM not_found_events GROUP BY url_domain, url_path) AS g`,
	).Scan(&stats.TotalGroups)
	if err != nil {
		return nil, fmt.Errorf("store group count: %w", err)
	}

	if oldest.Valid {
		t := oldest.Time.UTC()
		stats.OldestEvent = &t
	}
	if newest.Valid {
		t := newest.Time.UTC()
		stats.NewestEvent = &t
	}

	return &stats, nil
}

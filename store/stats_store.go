// api/store/stats_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pawtrack/api/models"
)

// Event types the dashboard breaks out individually. The schema itself
// accepts any string; these are only the ones with dedicated counters.
const (
	EventVideoClick   = "video_click"
	EventContactClick = "contact_click"
	EventProgramView  = "program_view"
)

type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// GetStats runs every dashboard query concurrently and joins them
// all-or-fail: the dashboard has no way to render a partial document, so
// one failed sub-query fails the whole request.
func (s *StatsStore) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	resp := &models.StatsResponse{
		DailyTrend:     []models.DailyVisits{},
		DeviceStats:    []models.NameCount{},
		BrowserStats:   []models.NameCount{},
		TopPages:       []models.NameCount{},
		VideoStats:     []models.NameCount{},
		ProgramStats:   []models.NameCount{},
		ContactStats:   []models.NameCount{},
		CountryStats:   []models.CountryCount{},
		RecentActivity: []models.ActivityEntry{},
		VideoTrend:     []models.DailyCount{},
		ContactTrend:   []models.DailyCount{},
		DurationTrend:  []models.DailyDuration{},
		ReferrerStats:  []models.NameCount{},
		ReferrerTrend:  []models.ReferrerDay{},
	}

	g, ctx := errgroup.WithContext(ctx)

	// Each closure writes a distinct response field, so no locking is
	// needed around the shared struct.
	g.Go(func() (err error) { resp.TotalVisits, err = s.CountVisits24h(ctx); return })
	g.Go(func() (err error) { resp.VideoClicks, err = s.CountEvents24h(ctx, EventVideoClick); return })
	g.Go(func() (err error) { resp.ContactClicks, err = s.CountEvents24h(ctx, EventContactClick); return })
	g.Go(func() (err error) { resp.ProgramViews, err = s.CountEvents24h(ctx, EventProgramView); return })
	g.Go(func() (err error) { resp.LiveUsers, err = s.LiveUsers(ctx); return })
	g.Go(func() (err error) { resp.DailyTrend, err = s.DailyVisitTrend(ctx); return })
	g.Go(func() (err error) { resp.DeviceStats, err = s.DeviceBreakdown(ctx); return })
	g.Go(func() (err error) { resp.BrowserStats, err = s.BrowserBreakdown(ctx); return })
	g.Go(func() (err error) { resp.TopPages, err = s.TopPages(ctx); return })
	g.Go(func() (err error) { resp.VideoStats, err = s.TopEventNames(ctx, EventVideoClick); return })
	g.Go(func() (err error) { resp.ProgramStats, err = s.TopEventNames(ctx, EventProgramView); return })
	g.Go(func() (err error) { resp.ContactStats, err = s.TopEventNames(ctx, EventContactClick); return })
	g.Go(func() (err error) { resp.CountryStats, err = s.CountryBreakdown(ctx); return })
	g.Go(func() (err error) { resp.RecentActivity, err = s.RecentActivity(ctx); return })
	g.Go(func() (err error) { resp.VideoTrend, err = s.DailyEventTrend(ctx, EventVideoClick); return })
	g.Go(func() (err error) { resp.ContactTrend, err = s.DailyEventTrend(ctx, EventContactClick); return })
	g.Go(func() (err error) { resp.DurationTrend, err = s.DurationTrend(ctx); return })
	g.Go(func() (err error) { resp.ReferrerStats, resp.ReferrerTrend, err = s.ReferrerBreakdown(ctx); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resp, nil
}

// CountVisits24h counts visits recorded in the last 24 hours.
func (s *StatsStore) CountVisits24h(ctx context.Context) (int64, error) {
	return s.countRow(ctx, `SELECT COUNT(*) FROM visits WHERE created_at >= NOW() - INTERVAL '24 hours'`)
}

// CountEvents24h counts events of one type recorded in the last 24 hours.
func (s *StatsStore) CountEvents24h(ctx context.Context, eventType string) (int64, error) {
	return s.countRow(ctx, `SELECT COUNT(*) FROM events WHERE event_type = $1 AND created_at >= NOW() - INTERVAL '24 hours'`, eventType)
}

// LiveUsers counts distinct visitors whose tab was open within the last
// five minutes, as witnessed by the heartbeat timestamp.
func (s *StatsStore) LiveUsers(ctx context.Context) (int64, error) {
	return s.countRow(ctx, `SELECT COUNT(DISTINCT identity_hash) FROM visits WHERE last_heartbeat >= NOW() - INTERVAL '5 minutes'`)
}

func (s *StatsStore) countRow(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to query count: %w", err)
	}
	return count, nil
}

// DailyVisitTrend returns 30 days of per-day visit and distinct-visitor
// counts. Days without visits produce no bucket.
func (s *StatsStore) DailyVisitTrend(ctx context.Context) ([]models.DailyVisits, error) {
	query := `
		SELECT DATE(created_at)::text AS day, COUNT(*), COUNT(DISTINCT identity_hash)
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily visit trend: %w", err)
	}
	defer rows.Close()

	results := []models.DailyVisits{}
	for rows.Next() {
		var d models.DailyVisits
		if err := rows.Scan(&d.Date, &d.Visits, &d.UniqueVisitors); err != nil {
			return nil, fmt.Errorf("failed to scan daily visit trend row: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during daily visit trend query: %w", err)
	}

	return results, nil
}

// DeviceBreakdown returns the top 10 device types over the last 30 days.
func (s *StatsStore) DeviceBreakdown(ctx context.Context) ([]models.NameCount, error) {
	return s.nameCounts(ctx, `
		SELECT COALESCE(device_type, 'desktop') AS name, COUNT(*) AS total
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY name
		ORDER BY total DESC
		LIMIT 10
	`)
}

// BrowserBreakdown returns the top 10 browsers over the last 30 days.
func (s *StatsStore) BrowserBreakdown(ctx context.Context) ([]models.NameCount, error) {
	return s.nameCounts(ctx, `
		SELECT COALESCE(browser, 'unknown') AS name, COUNT(*) AS total
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY name
		ORDER BY total DESC
		LIMIT 10
	`)
}

// TopPages returns the 5 most visited pages over the last 30 days.
func (s *StatsStore) TopPages(ctx context.Context) ([]models.NameCount, error) {
	return s.nameCounts(ctx, `
		SELECT COALESCE(page, 'home') AS name, COUNT(*) AS total
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY name
		ORDER BY total DESC
		LIMIT 5
	`)
}

// TopEventNames returns the 5 most frequent names within one event type,
// all time.
func (s *StatsStore) TopEventNames(ctx context.Context, eventType string) ([]models.NameCount, error) {
	return s.nameCounts(ctx, `
		SELECT COALESCE(event_name, '') AS name, COUNT(*) AS total
		FROM events
		WHERE event_type = $1
		GROUP BY name
		ORDER BY total DESC
		LIMIT 5
	`, eventType)
}

// ReferrerBreakdown returns the top 10 referrers over the last 30 days plus
// the per-day per-referrer counts over the same window (the stacked source
// trend). The two share one window so they are read together.
func (s *StatsStore) ReferrerBreakdown(ctx context.Context) ([]models.NameCount, []models.ReferrerDay, error) {
	top, err := s.nameCounts(ctx, `
		SELECT COALESCE(referrer, 'direct') AS name, COUNT(*) AS total
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY name
		ORDER BY total DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT DATE(created_at)::text AS day, COALESCE(referrer, 'direct') AS ref, COUNT(*)
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day, ref
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query referrer trend: %w", err)
	}
	defer rows.Close()

	trend := []models.ReferrerDay{}
	for rows.Next() {
		var r models.ReferrerDay
		if err := rows.Scan(&r.Date, &r.Referrer, &r.Count); err != nil {
			return nil, nil, fmt.Errorf("failed to scan referrer trend row: %w", err)
		}
		trend = append(trend, r)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row error during referrer trend query: %w", err)
	}

	return top, trend, nil
}

func (s *StatsStore) nameCounts(ctx context.Context, query string, args ...interface{}) ([]models.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query name counts: %w", err)
	}
	defer rows.Close()

	results := []models.NameCount{}
	for rows.Next() {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan name count row: %w", err)
		}
		results = append(results, nc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during name count query: %w", err)
	}

	return results, nil
}

// CountryBreakdown returns the top 10 countries by visit count over the
// last 30 days, with distinct-visitor counts. Visits whose address never
// resolved (NULL country) are excluded.
func (s *StatsStore) CountryBreakdown(ctx context.Context) ([]models.CountryCount, error) {
	query := `
		SELECT country, COUNT(*) AS total, COUNT(DISTINCT identity_hash)
		FROM visits
		WHERE country IS NOT NULL AND created_at >= NOW() - INTERVAL '30 days'
		GROUP BY country
		ORDER BY total DESC
		LIMIT 10
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query country breakdown: %w", err)
	}
	defer rows.Close()

	results := []models.CountryCount{}
	for rows.Next() {
		var cc models.CountryCount
		if err := rows.Scan(&cc.Country, &cc.Visits, &cc.UniqueVisitors); err != nil {
			return nil, fmt.Errorf("failed to scan country row: %w", err)
		}
		results = append(results, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during country breakdown query: %w", err)
	}

	return results, nil
}

// RecentActivity merges the newest 50 rows from visits and events into one
// log, each row tagged with its origin table.
func (s *StatsStore) RecentActivity(ctx context.Context) ([]models.ActivityEntry, error) {
	query := `
		SELECT kind, name, detail, created_at FROM (
			SELECT 'visit' AS kind, COALESCE(page, 'home') AS name, COALESCE(country, '') AS detail, created_at FROM visits
			UNION ALL
			SELECT 'event' AS kind, COALESCE(event_type, '') AS name, COALESCE(event_name, '') AS detail, created_at FROM events
		) activity
		ORDER BY created_at DESC
		LIMIT 50
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()

	results := []models.ActivityEntry{}
	for rows.Next() {
		var entry models.ActivityEntry
		var createdAt time.Time
		if err := rows.Scan(&entry.Type, &entry.Name, &entry.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entry.CreatedAt = createdAt
		results = append(results, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during recent activity query: %w", err)
	}

	return results, nil
}

// DailyEventTrend returns 30 days of per-day counts for one event type.
func (s *StatsStore) DailyEventTrend(ctx context.Context, eventType string) ([]models.DailyCount, error) {
	query := `
		SELECT DATE(created_at)::text AS day, COUNT(*)
		FROM events
		WHERE event_type = $1 AND created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily event trend: %w", err)
	}
	defer rows.Close()

	results := []models.DailyCount{}
	for rows.Next() {
		var d models.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily event trend row: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during daily event trend query: %w", err)
	}

	return results, nil
}

// DurationTrend returns 30 days of per-day average session duration in
// whole seconds, rounded. Heartbeats only move last_heartbeat forward, so
// the averaged difference is never negative.
func (s *StatsStore) DurationTrend(ctx context.Context) ([]models.DailyDuration, error) {
	query := `
		SELECT DATE(created_at)::text AS day,
		       COALESCE(ROUND(AVG(EXTRACT(EPOCH FROM (last_heartbeat - created_at)))), 0)::bigint
		FROM visits
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query duration trend: %w", err)
	}
	defer rows.Close()

	results := []models.DailyDuration{}
	for rows.Next() {
		var d models.DailyDuration
		if err := rows.Scan(&d.Date, &d.AvgDuration); err != nil {
			return nil, fmt.Errorf("failed to scan duration trend row: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during duration trend query: %w", err)
	}

	return results, nil
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Regex fragments that each match exactly one of the stats queries. The
// fan-out issues them concurrently, so expectations are registered
// unordered and must not be ambiguous between queries.
const (
	reVisits24h     = `SELECT COUNT\(\*\) FROM visits WHERE created_at`
	reEvents24h     = `SELECT COUNT\(\*\) FROM events WHERE event_type`
	reLiveUsers     = `SELECT COUNT\(DISTINCT identity_hash\) FROM visits WHERE last_heartbeat`
	reDailyTrend    = `SELECT DATE\(created_at\)::text AS day, COUNT\(\*\), COUNT\(DISTINCT identity_hash\)`
	reDeviceStats   = `COALESCE\(device_type, 'desktop'\)`
	reBrowserStats  = `COALESCE\(browser, 'unknown'\)`
	reTopPages      = `COALESCE\(page, 'home'\) AS name, COUNT\(\*\) AS total`
	reTopEventNames = `COALESCE\(event_name, ''\) AS name`
	reCountryStats  = `SELECT country, COUNT\(\*\) AS total`
	reRecent        = `SELECT kind, name, detail, created_at`
	reEventTrend    = `SELECT DATE\(created_at\)::text AS day, COUNT\(\*\)\s+FROM events`
	reDuration      = `EXTRACT\(EPOCH`
	reReferrerTop   = `COALESCE\(referrer, 'direct'\) AS name`
	reReferrerTrend = `COALESCE\(referrer, 'direct'\) AS ref`
)

func zeroCount() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(0)
}

// expectEmptyStats registers every stats query with zero counts and empty
// result sets.
func expectEmptyStats(mock sqlmock.Sqlmock) {
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(reVisits24h).WillReturnRows(zeroCount())
	mock.ExpectQuery(reEvents24h).WithArgs(EventVideoClick).WillReturnRows(zeroCount())
	mock.ExpectQuery(reEvents24h).WithArgs(EventContactClick).WillReturnRows(zeroCount())
	mock.ExpectQuery(reEvents24h).WithArgs(EventProgramView).WillReturnRows(zeroCount())
	mock.ExpectQuery(reLiveUsers).WillReturnRows(zeroCount())
	mock.ExpectQuery(reDailyTrend).WillReturnRows(sqlmock.NewRows([]string{"day", "visits", "unique"}))
	mock.ExpectQuery(reDeviceStats).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reBrowserStats).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reTopPages).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reTopEventNames).WithArgs(EventVideoClick).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reTopEventNames).WithArgs(EventProgramView).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reTopEventNames).WithArgs(EventContactClick).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reCountryStats).WillReturnRows(sqlmock.NewRows([]string{"country", "total", "unique"}))
	mock.ExpectQuery(reRecent).WillReturnRows(sqlmock.NewRows([]string{"kind", "name", "detail", "created_at"}))
	mock.ExpectQuery(reEventTrend).WithArgs(EventVideoClick).WillReturnRows(sqlmock.NewRows([]string{"day", "count"}))
	mock.ExpectQuery(reEventTrend).WithArgs(EventContactClick).WillReturnRows(sqlmock.NewRows([]string{"day", "count"}))
	mock.ExpectQuery(reDuration).WillReturnRows(sqlmock.NewRows([]string{"day", "avg"}))
	mock.ExpectQuery(reReferrerTop).WillReturnRows(sqlmock.NewRows([]string{"name", "total"}))
	mock.ExpectQuery(reReferrerTrend).WillReturnRows(sqlmock.NewRows([]string{"day", "ref", "count"}))
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEmptyStats(mock)

	resp, err := NewStatsStore(db).GetStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, resp.TotalVisits)
	assert.Zero(t, resp.VideoClicks)
	assert.Zero(t, resp.ContactClicks)
	assert.Zero(t, resp.ProgramViews)
	assert.Zero(t, resp.LiveUsers)

	// Empty lists must be present, not null, so the dashboard renders.
	assert.NotNil(t, resp.DailyTrend)
	assert.Empty(t, resp.DailyTrend)
	assert.NotNil(t, resp.RecentActivity)
	assert.Empty(t, resp.RecentActivity)
	assert.NotNil(t, resp.DurationTrend)
	assert.Empty(t, resp.DurationTrend)
	assert.NotNil(t, resp.ReferrerTrend)
	assert.Empty(t, resp.ReferrerTrend)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatsSingleQueryFailureFailsAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(reLiveUsers).WillReturnError(errors.New("connection reset"))

	_, err = NewStatsStore(db).GetStats(context.Background())
	assert.Error(t, err)
}

func TestTopEventNamesOrderingPreserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Three video clicks across two names: the store must hand back the
	// count-descending order the query produced.
	mock.ExpectQuery(reTopEventNames).
		WithArgs(EventVideoClick).
		WillReturnRows(sqlmock.NewRows([]string{"name", "total"}).
			AddRow("intro", 2).
			AddRow("testimonial", 1))

	results, err := NewStatsStore(db).TopEventNames(context.Background(), EventVideoClick)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "intro", results[0].Name)
	assert.Equal(t, int64(2), results[0].Count)
	assert.Equal(t, "testimonial", results[1].Name)
	assert.Equal(t, int64(1), results[1].Count)
	assert.Equal(t, int64(3), results[0].Count+results[1].Count)
}

func TestDurationTrendScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(reDuration).
		WillReturnRows(sqlmock.NewRows([]string{"day", "avg"}).
			AddRow("2026-08-30", 40).
			AddRow("2026-08-31", 0))

	results, err := NewStatsStore(db).DurationTrend(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2026-08-30", results[0].Date)
	assert.Equal(t, int64(40), results[0].AvgDuration)
	assert.Equal(t, int64(0), results[1].AvgDuration)
}

func TestCountryBreakdownScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(reCountryStats).
		WillReturnRows(sqlmock.NewRows([]string{"country", "total", "unique"}).
			AddRow("Israel", 120, 45).
			AddRow("United States", 30, 12))

	results, err := NewStatsStore(db).CountryBreakdown(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Israel", results[0].Country)
	assert.Equal(t, int64(120), results[0].Visits)
	assert.Equal(t, int64(45), results[0].UniqueVisitors)
}

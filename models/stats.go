// api/models/stats.go
package models

import "time"

// Row shapes produced by the stats queries. Counts are int64 because they
// come straight out of COUNT(*).

type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DailyVisits struct {
	Date           string `json:"date"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DailyDuration struct {
	Date        string `json:"date"`
	AvgDuration int64  `json:"avgDuration"`
}

type CountryCount struct {
	Country        string `json:"country"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

type ReferrerDay struct {
	Date     string `json:"date"`
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

// ActivityEntry is one row of the merged visit/event log. Type is the
// discriminator: "visit" rows carry the page and country, "event" rows carry
// the event type and name.
type ActivityEntry struct {
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProcessMeta struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Version       string `json:"version"`
	Image         string `json:"image"`
	Commit        string `json:"commit"`
}

// StatsResponse is the single document the admin dashboard polls. Every
// list field is initialized empty, never null, so the charts render on a
// fresh database.
type StatsResponse struct {
	TotalVisits   int64 `json:"totalVisits"`
	VideoClicks   int64 `json:"videoClicks"`
	ContactClicks int64 `json:"contactClicks"`
	ProgramViews  int64 `json:"programViews"`
	LiveUsers     int64 `json:"liveUsers"`

	DailyTrend     []DailyVisits   `json:"dailyTrend"`
	DeviceStats    []NameCount     `json:"deviceStats"`
	BrowserStats   []NameCount     `json:"browserStats"`
	TopPages       []NameCount     `json:"topPages"`
	VideoStats     []NameCount     `json:"videoStats"`
	ProgramStats   []NameCount     `json:"programStats"`
	ContactStats   []NameCount     `json:"contactStats"`
	CountryStats   []CountryCount  `json:"countryStats"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
	VideoTrend     []DailyCount    `json:"videoTrend"`
	ContactTrend   []DailyCount    `json:"contactTrend"`
	DurationTrend  []DailyDuration `json:"durationTrend"`
	ReferrerStats  []NameCount     `json:"referrerStats"`
	ReferrerTrend  []ReferrerDay   `json:"referrerTrend"`

	Meta ProcessMeta `json:"meta"`
}

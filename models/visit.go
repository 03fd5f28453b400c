// api/models/visit.go
package models

import "time"

// Visit is one browsing session on the public site. last_heartbeat is the
// only field mutated after insert; last_heartbeat - created_at approximates
// session duration.
type Visit struct {
	ID            int       `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
	Page          string    `json:"page"`
	IdentityHash  string    `json:"identityHash"`
	Language      string    `json:"language"`
	Country       *string   `json:"country"`
	City          *string   `json:"city"`
	Referrer      string    `json:"referrer"`
	Browser       string    `json:"browser"`
	OS            string    `json:"os"`
	DeviceType    string    `json:"deviceType"`
}

type VisitRequest struct {
	Page     string `json:"page"`
	Language string `json:"language"`
	Referrer string `json:"referrer"`
}

type HeartbeatRequest struct {
	VisitID int `json:"visitId"`
}

// NewVisit is the enriched row handed to the store for insertion; the server
// fills created_at/last_heartbeat itself.
type NewVisit struct {
	Page         string
	IdentityHash string
	Language     string
	Country      *string
	City         *string
	Referrer     string
	Browser      string
	OS           string
	DeviceType   string
}

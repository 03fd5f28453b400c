// api/models/event.go
package models

import "time"

// Event is one discrete interaction on the public site (video play, contact
// click, program view). Events are fire-and-forget: no FK ties them to a
// visit, and they are never mutated after insert.
type Event struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	EventType string    `json:"eventType"`
	EventName string    `json:"eventName"`
	Metadata  string    `json:"metadata"`
}

// EventRequest is the ingestion payload. Type is intentionally not checked
// against a fixed set so new categories need no migration.
type EventRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Metadata string `json:"metadata"`
}

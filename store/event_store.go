// api/store/event_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// InsertEvent appends one interaction row and returns its id. Any type
// string is accepted; the schema is open to new event categories without a
// migration.
func (s *EventStore) InsertEvent(ctx context.Context, eventType, eventName, metadata string) (int, error) {
	query := `
		INSERT INTO events (event_type, event_name, metadata)
		VALUES ($1, $2, $3)
		RETURNING id;
	`

	var id int
	err := s.db.QueryRowContext(ctx, query, eventType, eventName, metadata).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return id, nil
}

// api/store/visit_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"pawtrack/api/models"
)

type VisitStore struct {
	db *sql.DB
}

func NewVisitStore(db *sql.DB) *VisitStore {
	return &VisitStore{db: db}
}

// InsertVisit writes one enriched visit row with created_at and
// last_heartbeat both set to the server clock, and returns the new id for
// client-side correlation.
func (s *VisitStore) InsertVisit(ctx context.Context, v models.NewVisit) (int, error) {
	query := `
		INSERT INTO visits (page, identity_hash, language, country, city, referrer, browser, os, device_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`

	var id int
	err := s.db.QueryRowContext(ctx, query,
		v.Page,
		v.IdentityHash,
		v.Language,
		v.Country,
		v.City,
		v.Referrer,
		v.Browser,
		v.OS,
		v.DeviceType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert visit: %w", err)
	}

	return id, nil
}

// Heartbeat moves last_heartbeat forward for one visit. An unknown id
// updates zero rows and is still a success: a stale or forged id must only
// ever be a no-op.
func (s *VisitStore) Heartbeat(ctx context.Context, visitID int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE visits SET last_heartbeat = NOW() WHERE id = $1`, visitID)
	if err != nil {
		return fmt.Errorf("failed to update heartbeat: %w", err)
	}
	return nil
}

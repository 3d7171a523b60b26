package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mmynk/tripsplit/internal/models"
)

const (
	tripColumns = `id, name, join_code, join_secret_hash, creator_id, created_at`

	// joinCodeAttempts bounds retries when a generated join code collides.
	joinCodeAttempts = 5
)

// newJoinCode returns a short uppercase code derived from a random UUID.
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// CreateTrip persists a new trip and makes its creator the first member.
func (s *Store) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	trip.CreatedAt = s.now()

	for i := 0; i < joinCodeAttempts; i++ {
		trip.JoinCode = newJoinCode()
		err := s.insertTrip(ctx, trip)
		if err == nil {
			return nil
		}
		// unique violation on join_code → retry
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		return err
	}
	return &models.StorageError{Op: "create trip", Err: errors.New("could not generate a unique join code")}
}

func (s *Store) insertTrip(ctx context.Context, trip *models.Trip) error {
	return s.withTx(ctx, "create trip", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO trips (id, name, join_code, join_secret_hash, creator_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), trip.ID, trip.Name, trip.JoinCode, trip.JoinSecretHash, trip.CreatorID, trip.CreatedAt)
		if err != nil {
			return storageErr("insert trip", err)
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO trip_members (trip_id, user_id, joined_at) VALUES (?, ?, ?)
		`), trip.ID, trip.CreatorID, s.now())
		if err != nil {
			return storageErr("add trip creator", err)
		}
		return nil
	})
}

// GetTrip retrieves a trip by ID.
func (s *Store) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	trip := &models.Trip{}
	query := s.db.Rebind(`SELECT ` + tripColumns + ` FROM trips WHERE id = ?`)
	if err := s.db.GetContext(ctx, trip, query, id); err != nil {
		return nil, storageErr("get trip", err)
	}
	return trip, nil
}

// GetTripByJoinCode retrieves a trip by its public join code. Codes are
// matched case-insensitively.
func (s *Store) GetTripByJoinCode(ctx context.Context, joinCode string) (*models.Trip, error) {
	trip := &models.Trip{}
	query := s.db.Rebind(`SELECT ` + tripColumns + ` FROM trips WHERE join_code = ?`)
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if err := s.db.GetContext(ctx, trip, query, code); err != nil {
		return nil, storageErr("get trip by join code", err)
	}
	return trip, nil
}

// DeleteTrip deletes a trip. Memberships and bills go with it.
func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM trips WHERE id = ?`), id); err != nil {
		return storageErr("delete trip", err)
	}
	return nil
}

// AddMember adds userID to a trip unless already a member.
func (s *Store) AddMember(ctx context.Context, tripID, userID string) error {
	query := s.db.Rebind(`
		INSERT INTO trip_members (trip_id, user_id, joined_at) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if _, err := s.db.ExecContext(ctx, query, tripID, userID, s.now()); err != nil {
		return storageErr("add trip member", err)
	}
	return nil
}

// IsMember reports whether userID belongs to the trip.
func (s *Store) IsMember(ctx context.Context, tripID, userID string) (bool, error) {
	var n int
	query := s.db.Rebind(`SELECT COUNT(*) FROM trip_members WHERE trip_id = ? AND user_id = ?`)
	if err := s.db.GetContext(ctx, &n, query, tripID, userID); err != nil {
		return false, storageErr("check trip membership", err)
	}
	return n > 0, nil
}

// ListMembers returns the members of a trip in join order.
func (s *Store) ListMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	members := []models.Member{}
	query := s.db.Rebind(`
		SELECT u.id, u.display_name, u.external_ref, u.created_at, u.updated_at, m.joined_at
		FROM trip_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.trip_id = ?
		ORDER BY m.joined_at, u.id
	`)
	if err := s.db.SelectContext(ctx, &members, query, tripID); err != nil {
		return nil, storageErr("list trip members", err)
	}
	return members, nil
}

// ListTripsForUser returns the trips a user belongs to, newest first.
func (s *Store) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	trips := []*models.Trip{}
	query := s.db.Rebind(fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = ?
		ORDER BY t.created_at DESC, t.id
	`, prefixColumns("t", tripColumns)))
	if err := s.db.SelectContext(ctx, &trips, query, userID); err != nil {
		return nil, storageErr("list trips", err)
	}
	return trips, nil
}

// prefixColumns qualifies a comma separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

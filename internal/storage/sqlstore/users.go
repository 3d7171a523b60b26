package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mmynk/tripsplit/internal/models"
)

const userColumns = `id, display_name, external_ref, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := s.db.Rebind(`
		INSERT INTO users (id, display_name, external_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.DisplayName,
		user.ExternalRef,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return storageErr("create user", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := s.db.GetContext(ctx, user, query, id); err != nil {
		return nil, storageErr("get user by ID", err)
	}
	return user, nil
}

// GetUserByExternalRef retrieves a user by their identity provider subject.
func (s *Store) GetUserByExternalRef(ctx context.Context, externalRef string) (*models.User, error) {
	user := &models.User{}
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE external_ref = ?`)
	if err := s.db.GetContext(ctx, user, query, externalRef); err != nil {
		return nil, storageErr("get user by external ref", err)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Users that don't exist are omitted from the result.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, storageErr("build users query", err)
	}

	var rows []*models.User
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, storageErr("get users by IDs", err)
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// UpdateUserDisplayName changes a user's display name.
func (s *Store) UpdateUserDisplayName(ctx context.Context, id, displayName string) error {
	query := s.db.Rebind(`UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, displayName, s.now(), id)
	if err != nil {
		return storageErr("update user", err)
	}
	return requireAffected(res, "update user")
}

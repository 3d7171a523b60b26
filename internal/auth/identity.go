package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/models"
)

// UserStorage defines the user persistence operations the resolver needs.
// This allows the resolver to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByExternalRef(ctx context.Context, externalRef string) (*models.User, error)
	UpdateUserDisplayName(ctx context.Context, id, displayName string) error
}

// IdentityResolver maps provider identities to local users, creating the
// user the first time a subject is seen.
type IdentityResolver struct {
	storage UserStorage
}

// NewIdentityResolver creates a resolver backed by storage.
func NewIdentityResolver(storage UserStorage) *IdentityResolver {
	return &IdentityResolver{storage: storage}
}

// Resolve returns the local user for id. Exactly one user exists per subject:
// when a concurrent request inserts the same subject first, the unique
// violation is absorbed and the winner's row is returned.
// A changed provider name is copied onto the existing user.
func (r *IdentityResolver) Resolve(ctx context.Context, id Identity) (*models.User, error) {
	if id.Subject == "" {
		return nil, fmt.Errorf("%w: identity subject is required", models.ErrInvalidInput)
	}
	name := id.DisplayName()

	user, err := r.storage.GetUserByExternalRef(ctx, id.Subject)
	switch {
	case err == nil:
		return r.syncName(ctx, user, name)
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	user = models.NewUser(id.Subject, name)
	err = r.storage.CreateUser(ctx, user)
	if err == nil {
		slog.Info("User created", "user_id", user.ID, "external_ref", id.Subject)
		return user, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, err
	}

	// Lost the insert race; the other writer's row is authoritative.
	user, err = r.storage.GetUserByExternalRef(ctx, id.Subject)
	if err != nil {
		return nil, err
	}
	return r.syncName(ctx, user, name)
}

func (r *IdentityResolver) syncName(ctx context.Context, user *models.User, name string) (*models.User, error) {
	if name == "" || name == user.DisplayName || name == derefString(user.ExternalRef) {
		return user, nil
	}
	if err := r.storage.UpdateUserDisplayName(ctx, user.ID, name); err != nil {
		return nil, err
	}
	user.DisplayName = name
	return user, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

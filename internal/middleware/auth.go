package middleware

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated local user ID.
	UserIDKey contextKey = "user_id"
	// ExternalRefKey is the context key for the identity provider subject.
	ExternalRefKey contextKey = "external_ref"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetExternalRef extracts the identity provider subject from the context.
func GetExternalRef(ctx context.Context) string {
	ref, _ := ctx.Value(ExternalRefKey).(string)
	return ref
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserResolver maps a verified identity to a local user.
type UserResolver interface {
	Resolve(ctx context.Context, id auth.Identity) (*models.User, error)
}

// RequireAuth returns an interceptor that verifies the bearer token with the
// identity provider, resolves the caller to a local user (creating it on first
// sight) and adds the user ID to the request context.
func RequireAuth(verifier auth.TokenVerifier, resolver UserResolver) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := auth.BearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			identity, err := verifier.Verify(ctx, token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			user, err := resolver.Resolve(ctx, *identity)
			if err != nil {
				if errors.Is(err, models.ErrInvalidInput) {
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				slog.Error("Failed to resolve identity", "external_ref", identity.Subject, "error", err)
				return nil, connect.NewError(connect.CodeInternal, errors.New("failed to resolve user"))
			}

			ctx = WithUserID(ctx, user.ID)
			ctx = context.WithValue(ctx, ExternalRefKey, identity.Subject)
			return next(ctx, req)
		}
	}
}

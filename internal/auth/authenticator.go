package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Identity is what an identity provider asserts about the caller.
type Identity struct {
	// Subject is the provider's stable user identifier.
	Subject   string
	Name      string
	FirstName string
	LastName  string
	Username  string
	Email     string
}

// DisplayName picks the name shown to other users: first and last name when
// both are set, else the full name, else the username, else the local part
// of the email, else the subject.
func (id Identity) DisplayName() string {
	first, last := strings.TrimSpace(id.FirstName), strings.TrimSpace(id.LastName)
	if first != "" && last != "" {
		return first + " " + last
	}
	if name := strings.TrimSpace(id.Name); name != "" {
		return name
	}
	if u := strings.TrimSpace(id.Username); u != "" {
		return u
	}
	if local, _, ok := strings.Cut(strings.TrimSpace(id.Email), "@"); ok && local != "" {
		return local
	}
	return id.Subject
}

// TokenVerifier defines the interface for identity provider integrations.
// This abstraction allows swapping providers (Firebase, a JWT issuer, etc.)
// without changing the service layer code.
type TokenVerifier interface {
	// Verify checks a bearer token and returns the identity it asserts.
	// Returns an error wrapping ErrInvalidToken if the token is rejected.
	Verify(ctx context.Context, token string) (*Identity, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

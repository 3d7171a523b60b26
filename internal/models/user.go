package models

// User represents a person who can join trips and split bills.
//
// Users are created lazily the first time an identity provider subject is seen.
// The ID never changes; DisplayName follows the provider's profile.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `db:"id"`

	// DisplayName is the name shown to other trip members.
	DisplayName string `db:"display_name"`

	// ExternalRef is the identity provider's subject for this user.
	// Unique when set; nil for users not linked to a provider.
	ExternalRef *string `db:"external_ref"`

	// CreatedAt is the Unix timestamp (milliseconds) when the user was created.
	CreatedAt int64 `db:"created_at"`

	// UpdatedAt is the Unix timestamp (milliseconds) of the last profile change.
	UpdatedAt int64 `db:"updated_at"`
}

// NewUser creates a user linked to the given identity provider subject.
func NewUser(externalRef, displayName string) *User {
	u := &User{DisplayName: displayName}
	if externalRef != "" {
		u.ExternalRef = &externalRef
	}
	return u
}

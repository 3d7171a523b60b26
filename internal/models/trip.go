package models

// Trip represents a named group of users sharing expenses.
// Members join with the public JoinCode and the shared passphrase.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string `db:"id"`

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string `db:"name"`

	// JoinCode is the short public code other users enter to join.
	JoinCode string `db:"join_code"`

	// JoinSecretHash is the bcrypt hash of the shared passphrase.
	JoinSecretHash string `db:"join_secret_hash"`

	// CreatorID is the user who created the trip. The creator is always a member.
	CreatorID string `db:"creator_id"`

	// CreatedAt is the Unix timestamp (milliseconds) when the trip was created.
	CreatedAt int64 `db:"created_at"`
}

// Member is a user together with the time they joined a trip.
type Member struct {
	User
	JoinedAt int64 `db:"joined_at"`
}

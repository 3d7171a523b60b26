// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/tripsplit/internal/models"
)

// Store defines the full persistence surface used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups of missing entities return models.ErrNotFound. Unique violations
// return models.ErrConflict. Other failures are *models.StorageError.
type Store interface {
	UserStore
	TripStore
	BillStore
	ItemStore

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists users known to the system.
type UserStore interface {
	// CreateUser inserts a user. ID and timestamps are populated by the store.
	// Returns ErrConflict if the external ref is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id string) (*models.User, error)

	GetUserByExternalRef(ctx context.Context, externalRef string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	UpdateUserDisplayName(ctx context.Context, id, displayName string) error
}

// TripStore persists trips and their memberships.
type TripStore interface {
	// CreateTrip inserts a trip with a fresh join code and adds the creator
	// as its first member. ID, JoinCode and CreatedAt are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	GetTrip(ctx context.Context, id string) (*models.Trip, error)

	GetTripByJoinCode(ctx context.Context, joinCode string) (*models.Trip, error)

	// DeleteTrip removes a trip with its memberships and bills.
	// Deleting a missing trip is not an error.
	DeleteTrip(ctx context.Context, id string) error

	// AddMember is idempotent: adding an existing member leaves one membership row.
	AddMember(ctx context.Context, tripID, userID string) error

	IsMember(ctx context.Context, tripID, userID string) (bool, error)

	// ListMembers returns members in join order.
	ListMembers(ctx context.Context, tripID string) ([]models.Member, error)

	// ListTripsForUser returns the trips userID belongs to, newest first.
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)
}

// BillStore persists bills and even-split participation.
type BillStore interface {
	// CreateBill inserts a bill. ID and timestamps are populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	GetBill(ctx context.Context, id string) (*models.Bill, error)

	// ListBills returns the bills of a trip in creation order.
	ListBills(ctx context.Context, tripID string) ([]*models.Bill, error)

	// UpdateBill changes name, total and type. When the type changes, the rows
	// belonging to the previous mode (items and claims, or participants) are
	// deleted in the same transaction.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill with its items, claims and participants.
	// Deleting a missing bill is not an error.
	DeleteBill(ctx context.Context, id string) error

	// AddParticipant opts userID into an even bill. Idempotent.
	// Returns ErrInvalidInput for itemized bills.
	AddParticipant(ctx context.Context, billID, userID string) error

	// RemoveParticipant is idempotent.
	RemoveParticipant(ctx context.Context, billID, userID string) error

	// ListParticipants returns participants in join order.
	ListParticipants(ctx context.Context, billID string) ([]*models.User, error)
}

// ItemStore persists line items and claims.
type ItemStore interface {
	// CreateItem inserts an item under an itemized bill.
	// Returns ErrInvalidInput for even bills or a quantity below 1.
	CreateItem(ctx context.Context, item *models.BillItem) error

	GetItem(ctx context.Context, id string) (*models.BillItem, error)

	// ListItems returns the items of a bill in creation order.
	ListItems(ctx context.Context, billID string) ([]*models.BillItem, error)

	UpdateItem(ctx context.Context, item *models.BillItem) error

	// DeleteItem removes an item and its claims. Deleting a missing item is not an error.
	DeleteItem(ctx context.Context, id string) error

	// Claim and Unclaim are idempotent.
	Claim(ctx context.Context, itemID, userID string) error
	Unclaim(ctx context.Context, itemID, userID string) error

	// ClaimantsOf returns the users who claimed an item, in claim order.
	ClaimantsOf(ctx context.Context, itemID string) ([]*models.User, error)

	// ClaimsForBill maps every claimed item of a bill to its claimant IDs in claim order.
	ClaimsForBill(ctx context.Context, billID string) (map[string][]string, error)

	// ItemsClaimedBy returns the items of billID claimed by userID.
	ItemsClaimedBy(ctx context.Context, billID, userID string) ([]*models.BillItem, error)
}

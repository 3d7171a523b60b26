package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BillType selects how a bill's cost is divided.
type BillType string

const (
	// BillTypeEven splits the total evenly among opted-in participants.
	BillTypeEven BillType = "even"
	// BillTypeItemized splits the bill by line items claimed by users.
	BillTypeItemized BillType = "itemized"
)

// ParseBillType validates a bill type. An empty value defaults to itemized,
// and the legacy value "items" is accepted as itemized.
func ParseBillType(s string) (BillType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "items", string(BillTypeItemized):
		return BillTypeItemized, nil
	case string(BillTypeEven):
		return BillTypeEven, nil
	default:
		return "", fmt.Errorf("%w: unknown bill type %q", ErrInvalidInput, s)
	}
}

// Bill represents one expense under a trip.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `db:"id"`

	// TripID is the trip this bill belongs to.
	TripID string `db:"trip_id"`

	// Name is the human-readable name for the bill (e.g., "Dinner").
	Name string `db:"name"`

	// TotalAmount is the bill total, non-negative with two fractional digits.
	TotalAmount decimal.Decimal `db:"total_amount"`

	// Type is either BillTypeEven or BillTypeItemized.
	Type BillType `db:"bill_type"`

	// CreatorID is the user who added the bill.
	CreatorID string `db:"creator_id"`

	// CreatedAt is the Unix timestamp (milliseconds) when the bill was created.
	// Bills of a trip are listed in CreatedAt order.
	CreatedAt int64 `db:"created_at"`

	// UpdatedAt is the Unix timestamp (milliseconds) of the last edit.
	UpdatedAt int64 `db:"updated_at"`
}

// BillItem represents a single line item on an itemized bill.
type BillItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `db:"id"`

	// BillID is the itemized bill this item belongs to.
	BillID string `db:"bill_id"`

	// Name is the item description (e.g., "Pizza").
	Name string `db:"name"`

	// UnitPrice is the price of one unit, non-negative with two fractional digits.
	UnitPrice decimal.Decimal `db:"unit_price"`

	// Quantity is the number of units, at least 1.
	Quantity int `db:"quantity"`

	// CreatedAt is the Unix timestamp (milliseconds) when the item was added.
	CreatedAt int64 `db:"created_at"`
}

// Cost returns UnitPrice * Quantity.
func (i BillItem) Cost() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

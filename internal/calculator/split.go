package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
)

// Bill is the input to Calculate: exactly one of EvenSplit or Itemized.
// The interface is sealed so a bill with both participants and items
// cannot be expressed.
type Bill interface {
	Type() models.BillType
	sealed()
}

// EvenSplit is a bill whose total is shared evenly by its participants.
// Participants are user IDs in join order; the order decides who absorbs
// leftover cents.
type EvenSplit struct {
	Total        decimal.Decimal
	Participants []string
}

// Itemized is a bill divided by line items claimed by users.
type Itemized struct {
	Total decimal.Decimal
	Items []Item
}

// Item represents a single line item and the users who claimed it.
// Claimants are user IDs in claim order.
type Item struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Claimants []string
}

func (EvenSplit) Type() models.BillType { return models.BillTypeEven }
func (EvenSplit) sealed()                {}
func (Itemized) Type() models.BillType  { return models.BillTypeItemized }
func (Itemized) sealed()                 {}

// Cost returns UnitPrice * Quantity.
func (i Item) Cost() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemShare is one user's share of one item.
type ItemShare struct {
	ItemID string
	Name   string
	Amount decimal.Decimal
}

// Share is what one user owes for a bill.
type Share struct {
	UserID string
	Amount decimal.Decimal
	// Items is the per-item breakdown; empty for even splits.
	Items []ItemShare
}

// Result is the calculated split of one bill.
type Result struct {
	Type  models.BillType
	Total decimal.Decimal

	// PerPerson is Total divided by the participant count, rounded half up
	// to the cent. Zero when nobody participates. Even splits only.
	PerPerson decimal.Decimal

	// Shares lists every user who owes something (or participates), in
	// participant order for even splits and first-claim order for itemized bills.
	Shares []Share

	// Assigned is the sum of all shares.
	Assigned decimal.Decimal

	// Unassigned is the cost of items nobody claimed. Itemized bills only.
	Unassigned decimal.Decimal
}

// OwedBy returns what userID owes under r, zero if they have no share.
func (r *Result) OwedBy(userID string) decimal.Decimal {
	for _, s := range r.Shares {
		if s.UserID == userID {
			return s.Amount
		}
	}
	return decimal.Zero
}

// Calculate computes how much each user owes for a bill.
//
// Even split: the total is allocated across participants with the largest
// remainder method, so shares differ by at most one cent and add up to the
// total. No participants means nobody owes anything.
//
// Itemized: each item's cost (unit price * quantity) is allocated across its
// claimants the same way. Unclaimed items are charged to nobody and are
// reported as Unassigned. A user owes the sum of their item shares.
func Calculate(bill Bill) (*Result, error) {
	switch b := bill.(type) {
	case EvenSplit:
		return calculateEven(b)
	case Itemized:
		return calculateItemized(b)
	case nil:
		return nil, fmt.Errorf("%w: bill is required", models.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unsupported bill %T", models.ErrInvalidInput, bill)
	}
}

func calculateEven(b EvenSplit) (*Result, error) {
	if err := money.Validate(b.Total); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	participants := dedupe(b.Participants)
	result := &Result{
		Type:       models.BillTypeEven,
		Total:      b.Total,
		PerPerson:  decimal.Zero,
		Assigned:   decimal.Zero,
		Unassigned: decimal.Zero,
	}
	if len(participants) == 0 {
		return result, nil
	}

	result.PerPerson = b.Total.DivRound(decimal.NewFromInt(int64(len(participants))), money.Scale)
	amounts := money.Allocate(b.Total, len(participants))
	result.Shares = make([]Share, len(participants))
	for i, p := range participants {
		result.Shares[i] = Share{UserID: p, Amount: amounts[i]}
		result.Assigned = result.Assigned.Add(amounts[i])
	}
	return result, nil
}

func calculateItemized(b Itemized) (*Result, error) {
	if err := money.Validate(b.Total); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	result := &Result{
		Type:       models.BillTypeItemized,
		Total:      b.Total,
		PerPerson:  decimal.Zero,
		Assigned:   decimal.Zero,
		Unassigned: decimal.Zero,
	}

	// Track share order by first claim
	index := make(map[string]int)
	for _, item := range b.Items {
		if err := money.Validate(item.UnitPrice); err != nil {
			return nil, fmt.Errorf("item %q unit price: %w", item.Name, err)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %q quantity must be at least 1, got %d", models.ErrInvalidInput, item.Name, item.Quantity)
		}

		cost := item.Cost()
		claimants := dedupe(item.Claimants)
		if len(claimants) == 0 {
			result.Unassigned = result.Unassigned.Add(cost)
			continue
		}

		amounts := money.Allocate(cost, len(claimants))
		for i, userID := range claimants {
			pos, ok := index[userID]
			if !ok {
				pos = len(result.Shares)
				index[userID] = pos
				result.Shares = append(result.Shares, Share{UserID: userID, Amount: decimal.Zero})
			}
			share := &result.Shares[pos]
			share.Amount = share.Amount.Add(amounts[i])
			share.Items = append(share.Items, ItemShare{ItemID: item.ID, Name: item.Name, Amount: amounts[i]})
			result.Assigned = result.Assigned.Add(amounts[i])
		}
	}
	return result, nil
}

// dedupe drops repeated IDs, keeping the first occurrence.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

package service

import (
	"context"
	"fmt"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// billState is everything stored under one bill.
type billState struct {
	bill         *models.Bill
	items        []*models.BillItem
	claims       map[string][]string // item ID → claimant IDs in claim order
	participants []*models.User
}

// loadBillState reads the rows of the bill's current mode.
func loadBillState(ctx context.Context, store storage.Store, bill *models.Bill) (*billState, error) {
	state := &billState{bill: bill, claims: map[string][]string{}}

	var err error
	switch bill.Type {
	case models.BillTypeEven:
		state.participants, err = store.ListParticipants(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
	case models.BillTypeItemized:
		state.items, err = store.ListItems(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		state.claims, err = store.ClaimsForBill(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: bill %s has unknown type %q", models.ErrInvalidInput, bill.ID, bill.Type)
	}
	return state, nil
}

// calculatorBill converts stored rows to the calculator's variant.
func (s *billState) calculatorBill() calculator.Bill {
	if s.bill.Type == models.BillTypeEven {
		ids := make([]string, len(s.participants))
		for i, p := range s.participants {
			ids[i] = p.ID
		}
		return calculator.EvenSplit{Total: s.bill.TotalAmount, Participants: ids}
	}

	items := make([]calculator.Item, len(s.items))
	for i, item := range s.items {
		items[i] = calculator.Item{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Claimants: s.claims[item.ID],
		}
	}
	return calculator.Itemized{Total: s.bill.TotalAmount, Items: items}
}

// split runs the calculator over the bill.
func (s *billState) split() (*calculator.Result, error) {
	return calculator.Calculate(s.calculatorBill())
}

// computeSplit loads a bill's rows and calculates its split.
func computeSplit(ctx context.Context, store storage.Store, bill *models.Bill) (*billState, *calculator.Result, error) {
	state, err := loadBillState(ctx, store, bill)
	if err != nil {
		return nil, nil, err
	}
	result, err := state.split()
	if err != nil {
		return nil, nil, err
	}
	return state, result, nil
}

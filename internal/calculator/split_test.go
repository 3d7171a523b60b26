package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateEvenSplit(t *testing.T) {
	tests := []struct {
		name          string
		total         string
		participants  []string
		wantPerPerson string
		wantShares    map[string]string
	}{
		{
			name:          "divides evenly",
			total:         "90.00",
			participants:  []string{"alice", "bob", "carol"},
			wantPerPerson: "30.00",
			wantShares:    map[string]string{"alice": "30.00", "bob": "30.00", "carol": "30.00"},
		},
		{
			name:          "leftover cent goes to earliest participant",
			total:         "100.00",
			participants:  []string{"alice", "bob", "carol"},
			wantPerPerson: "33.33",
			wantShares:    map[string]string{"alice": "33.34", "bob": "33.33", "carol": "33.33"},
		},
		{
			name:          "per person rounds half up",
			total:         "29.97",
			participants:  []string{"alice", "bob"},
			wantPerPerson: "14.99",
			wantShares:    map[string]string{"alice": "14.99", "bob": "14.98"},
		},
		{
			name:          "single participant owes everything",
			total:         "42.50",
			participants:  []string{"alice"},
			wantPerPerson: "42.50",
			wantShares:    map[string]string{"alice": "42.50"},
		},
		{
			name:          "duplicate participants counted once",
			total:         "10.00",
			participants:  []string{"alice", "bob", "alice"},
			wantPerPerson: "5.00",
			wantShares:    map[string]string{"alice": "5.00", "bob": "5.00"},
		},
		{
			name:          "totals beyond int64 cents",
			total:         "100000000000000000000.00",
			participants:  []string{"alice", "bob", "carol"},
			wantPerPerson: "33333333333333333333.33",
			wantShares: map[string]string{
				"alice": "33333333333333333333.34",
				"bob":   "33333333333333333333.33",
				"carol": "33333333333333333333.33",
			},
		},
		{
			name:          "zero total",
			total:         "0",
			participants:  []string{"alice", "bob"},
			wantPerPerson: "0.00",
			wantShares:    map[string]string{"alice": "0.00", "bob": "0.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(EvenSplit{Total: d(tt.total), Participants: tt.participants})
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if result.Type != models.BillTypeEven {
				t.Errorf("Type = %q, want %q", result.Type, models.BillTypeEven)
			}
			if !result.PerPerson.Equal(d(tt.wantPerPerson)) {
				t.Errorf("PerPerson = %s, want %s", result.PerPerson, tt.wantPerPerson)
			}
			if len(result.Shares) != len(tt.wantShares) {
				t.Fatalf("got %d shares, want %d", len(result.Shares), len(tt.wantShares))
			}
			for user, want := range tt.wantShares {
				if got := result.OwedBy(user); !got.Equal(d(want)) {
					t.Errorf("OwedBy(%s) = %s, want %s", user, got, want)
				}
			}
			if !result.Assigned.Equal(d(tt.total)) {
				t.Errorf("Assigned = %s, want %s", result.Assigned, tt.total)
			}
			if !result.Unassigned.IsZero() {
				t.Errorf("Unassigned = %s, want 0", result.Unassigned)
			}
		})
	}
}

func TestCalculateEvenSplitNoParticipants(t *testing.T) {
	result, err := Calculate(EvenSplit{Total: d("50.00")})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(result.Shares) != 0 {
		t.Errorf("got %d shares, want none", len(result.Shares))
	}
	if !result.PerPerson.IsZero() {
		t.Errorf("PerPerson = %s, want 0", result.PerPerson)
	}
	if got := result.OwedBy("alice"); !got.IsZero() {
		t.Errorf("OwedBy(alice) = %s, want 0", got)
	}
}

func TestCalculateItemized(t *testing.T) {
	tests := []struct {
		name           string
		items          []Item
		wantShares     map[string]string
		wantUnassigned string
	}{
		{
			name: "item shared by two with a solo item",
			items: []Item{
				{ID: "i1", Name: "Pizza", UnitPrice: d("20.00"), Quantity: 1, Claimants: []string{"alice", "bob"}},
				{ID: "i2", Name: "Salad", UnitPrice: d("10.00"), Quantity: 1, Claimants: []string{"alice"}},
			},
			wantShares:     map[string]string{"alice": "20.00", "bob": "10.00"},
			wantUnassigned: "0",
		},
		{
			name: "quantity multiplies unit price",
			items: []Item{
				{ID: "i1", Name: "Beer", UnitPrice: d("6.50"), Quantity: 4, Claimants: []string{"alice", "bob"}},
			},
			wantShares:     map[string]string{"alice": "13.00", "bob": "13.00"},
			wantUnassigned: "0",
		},
		{
			name: "uneven item cost splits to the cent",
			items: []Item{
				{ID: "i1", Name: "Nachos", UnitPrice: d("10.00"), Quantity: 1, Claimants: []string{"alice", "bob", "carol"}},
			},
			wantShares:     map[string]string{"alice": "3.34", "bob": "3.33", "carol": "3.33"},
			wantUnassigned: "0",
		},
		{
			name: "unclaimed items are unassigned",
			items: []Item{
				{ID: "i1", Name: "Wine", UnitPrice: d("30.00"), Quantity: 1},
				{ID: "i2", Name: "Bread", UnitPrice: d("4.25"), Quantity: 2, Claimants: []string{"bob"}},
			},
			wantShares:     map[string]string{"bob": "8.50"},
			wantUnassigned: "30.00",
		},
		{
			name:           "no items",
			items:          nil,
			wantShares:     map[string]string{},
			wantUnassigned: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(Itemized{Total: d("100.00"), Items: tt.items})
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if result.Type != models.BillTypeItemized {
				t.Errorf("Type = %q, want %q", result.Type, models.BillTypeItemized)
			}
			if len(result.Shares) != len(tt.wantShares) {
				t.Fatalf("got %d shares, want %d", len(result.Shares), len(tt.wantShares))
			}
			for user, want := range tt.wantShares {
				if got := result.OwedBy(user); !got.Equal(d(want)) {
					t.Errorf("OwedBy(%s) = %s, want %s", user, got, want)
				}
			}
			if !result.Unassigned.Equal(d(tt.wantUnassigned)) {
				t.Errorf("Unassigned = %s, want %s", result.Unassigned, tt.wantUnassigned)
			}

			// Assigned plus unassigned covers the cost of every item
			itemsCost := decimal.Zero
			for _, item := range tt.items {
				itemsCost = itemsCost.Add(item.Cost())
			}
			if got := result.Assigned.Add(result.Unassigned); !got.Equal(itemsCost) {
				t.Errorf("Assigned + Unassigned = %s, want %s", got, itemsCost)
			}
		})
	}
}

func TestCalculateItemizedLargeAmounts(t *testing.T) {
	result, err := Calculate(Itemized{
		Total: d("100000000000000000000.00"),
		Items: []Item{
			{ID: "yacht", Name: "Yacht", UnitPrice: d("100000000000000000000.00"), Quantity: 1, Claimants: []string{"alice"}},
		},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got := result.OwedBy("alice"); !got.Equal(d("100000000000000000000")) {
		t.Errorf("OwedBy(alice) = %s, want 100000000000000000000", got)
	}
	if !result.Assigned.Equal(result.Total) {
		t.Errorf("Assigned = %s, want %s", result.Assigned, result.Total)
	}
}

func TestCalculateItemizedBreakdown(t *testing.T) {
	result, err := Calculate(Itemized{
		Total: d("25.00"),
		Items: []Item{
			{ID: "burger", Name: "Burger", UnitPrice: d("15.00"), Quantity: 1, Claimants: []string{"bob"}},
			{ID: "fries", Name: "Fries", UnitPrice: d("5.00"), Quantity: 2, Claimants: []string{"alice", "bob"}},
		},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	// Shares follow first-claim order
	if result.Shares[0].UserID != "bob" || result.Shares[1].UserID != "alice" {
		t.Fatalf("share order = [%s %s], want [bob alice]", result.Shares[0].UserID, result.Shares[1].UserID)
	}

	bob := result.Shares[0]
	if len(bob.Items) != 2 {
		t.Fatalf("bob has %d item shares, want 2", len(bob.Items))
	}
	if bob.Items[0].ItemID != "burger" || !bob.Items[0].Amount.Equal(d("15.00")) {
		t.Errorf("bob burger share = %+v", bob.Items[0])
	}
	if bob.Items[1].ItemID != "fries" || !bob.Items[1].Amount.Equal(d("5.00")) {
		t.Errorf("bob fries share = %+v", bob.Items[1])
	}
	if !bob.Amount.Equal(d("20.00")) {
		t.Errorf("bob total = %s, want 20.00", bob.Amount)
	}
}

func TestCalculateInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		bill Bill
	}{
		{name: "nil bill", bill: nil},
		{name: "negative even total", bill: EvenSplit{Total: d("-1.00"), Participants: []string{"alice"}}},
		{name: "too many decimals", bill: EvenSplit{Total: d("10.005"), Participants: []string{"alice"}}},
		{name: "negative itemized total", bill: Itemized{Total: d("-5")}},
		{
			name: "negative unit price",
			bill: Itemized{Total: d("10"), Items: []Item{{Name: "Refund", UnitPrice: d("-2.00"), Quantity: 1}}},
		},
		{
			name: "zero quantity",
			bill: Itemized{Total: d("10"), Items: []Item{{Name: "Soda", UnitPrice: d("2.00"), Quantity: 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.bill)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Calculate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

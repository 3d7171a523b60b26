package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MemberTotal is what one trip member owes across all bills of the trip.
type MemberTotal struct {
	UserID    string
	TotalOwed decimal.Decimal
	// BillCount is the number of bills in which the member has a share.
	BillCount int
}

// TripTotals aggregates owed amounts across the calculated splits of a trip's
// bills. Members listed in members always appear, with zero if they owe
// nothing; users with shares who are no longer members are included too.
// The result is sorted by amount owed, highest first, then by user ID.
//
// The second return value is the total cost of unclaimed items across all bills.
func TripTotals(results []*Result, members []string) ([]MemberTotal, decimal.Decimal) {
	totals := make(map[string]*MemberTotal, len(members))
	for _, m := range members {
		totals[m] = &MemberTotal{UserID: m, TotalOwed: decimal.Zero}
	}

	unassigned := decimal.Zero
	for _, r := range results {
		if r == nil {
			continue
		}
		unassigned = unassigned.Add(r.Unassigned)
		for _, share := range r.Shares {
			t, ok := totals[share.UserID]
			if !ok {
				t = &MemberTotal{UserID: share.UserID, TotalOwed: decimal.Zero}
				totals[share.UserID] = t
			}
			t.TotalOwed = t.TotalOwed.Add(share.Amount)
			t.BillCount++
		}
	}

	out := make([]MemberTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalOwed.Cmp(out[j].TotalOwed); c != 0 {
			return c > 0
		}
		return out[i].UserID < out[j].UserID
	})
	return out, unassigned
}

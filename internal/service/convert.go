package service

import (
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{Id: u.ID, DisplayName: u.DisplayName}
}

func toAPIUsers(users []*models.User) []*api.User {
	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return out
}

func toAPITrip(t *models.Trip) *api.Trip {
	return &api.Trip{
		Id:        t.ID,
		Name:      t.Name,
		JoinCode:  t.JoinCode,
		CreatorId: t.CreatorID,
		CreatedAt: t.CreatedAt,
	}
}

func toAPIMembers(members []models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = &api.Member{UserId: m.ID, DisplayName: m.DisplayName, JoinedAt: m.JoinedAt}
	}
	return out
}

func toAPIBill(b *models.Bill) *api.Bill {
	return &api.Bill{
		Id:          b.ID,
		TripId:      b.TripID,
		Name:        b.Name,
		TotalAmount: money.Format(b.TotalAmount),
		BillType:    string(b.Type),
		CreatorId:   b.CreatorID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// toAPIItem converts an item; claimants may be nil.
func toAPIItem(item *models.BillItem, claimants []*models.User) *api.BillItem {
	return &api.BillItem{
		Id:        item.ID,
		BillId:    item.BillID,
		Name:      item.Name,
		UnitPrice: money.Format(item.UnitPrice),
		Quantity:  int32(item.Quantity),
		Cost:      money.Format(item.Cost()),
		Claimants: toAPIUsers(claimants),
	}
}

// displayName looks a user up in names, falling back to the ID.
func displayName(names map[string]*models.User, userID string) string {
	if u, ok := names[userID]; ok {
		return u.DisplayName
	}
	return userID
}

func toAPISplit(r *calculator.Result, names map[string]*models.User) *api.Split {
	shares := make([]*api.Share, len(r.Shares))
	for i, s := range r.Shares {
		share := &api.Share{
			UserId:      s.UserID,
			DisplayName: displayName(names, s.UserID),
			Amount:      money.Format(s.Amount),
		}
		for _, is := range s.Items {
			share.Items = append(share.Items, &api.ItemShare{
				ItemId: is.ItemID,
				Name:   is.Name,
				Amount: money.Format(is.Amount),
			})
		}
		shares[i] = share
	}
	return &api.Split{
		BillType:   string(r.Type),
		PerPerson:  money.Format(r.PerPerson),
		Shares:     shares,
		Assigned:   money.Format(r.Assigned),
		Unassigned: money.Format(r.Unassigned),
	}
}

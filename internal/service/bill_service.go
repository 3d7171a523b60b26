package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Ensure BillService implements the Connect handler interface
var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService: bills, even-split
// participation, and the line items and claims of itemized bills.
type BillService struct {
	store storage.Store
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// CreateBill adds a bill to a trip the caller belongs to.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateBill request received",
		"trip_id", req.Msg.TripId,
		"name", req.Msg.Name,
		"total", req.Msg.TotalAmount,
		"bill_type", req.Msg.BillType,
	)

	if _, err := requireMember(ctx, s.store, req.Msg.TripId, userID); err != nil {
		return nil, connectError("CreateBill", err)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	total, err := money.Parse(req.Msg.TotalAmount)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}
	billType, err := models.ParseBillType(req.Msg.BillType)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}

	bill := &models.Bill{
		TripID:      req.Msg.TripId,
		Name:        name,
		TotalAmount: total,
		Type:        billType,
		CreatorID:   userID,
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, connectError("CreateBill", err)
	}

	slog.Info("Bill created", "bill_id", bill.ID, "trip_id", bill.TripID)
	return connect.NewResponse(&api.CreateBillResponse{Bill: toAPIBill(bill)}), nil
}

// ListBills returns the bills of a trip in creation order.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, s.store, req.Msg.TripId, userID); err != nil {
		return nil, connectError("ListBills", err)
	}
	bills, err := s.store.ListBills(ctx, req.Msg.TripId)
	if err != nil {
		return nil, connectError("ListBills", err)
	}

	out := make([]*api.Bill, len(bills))
	for i, b := range bills {
		out[i] = toAPIBill(b)
	}
	slog.Info("ListBills successful", "trip_id", req.Msg.TripId, "count", len(bills))
	return connect.NewResponse(&api.ListBillsResponse{Bills: out}), nil
}

// GetBill returns a bill with its items or participants, the computed
// split, and the caller's own share.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetBill request received", "bill_id", req.Msg.BillId)

	bill, err := loadBill(ctx, s.store, req.Msg.BillId, userID)
	if err != nil {
		return nil, connectError("GetBill", err)
	}
	state, result, err := computeSplit(ctx, s.store, bill)
	if err != nil {
		return nil, connectError("GetBill", err)
	}

	names, err := s.userNames(ctx, state)
	if err != nil {
		return nil, connectError("GetBill", err)
	}

	items := make([]*api.BillItem, len(state.items))
	for i, item := range state.items {
		claimants := make([]*models.User, 0, len(state.claims[item.ID]))
		for _, id := range state.claims[item.ID] {
			if u, ok := names[id]; ok {
				claimants = append(claimants, u)
			}
		}
		items[i] = toAPIItem(item, claimants)
	}

	return connect.NewResponse(&api.GetBillResponse{
		Bill:         toAPIBill(bill),
		Items:        items,
		Participants: toAPIUsers(state.participants),
		Split:        toAPISplit(result, names),
		MyShare:      money.Format(result.OwedBy(userID)),
	}), nil
}

// userNames loads every user referenced by the bill's participants and claims.
func (s *BillService) userNames(ctx context.Context, state *billState) (map[string]*models.User, error) {
	if len(state.participants) > 0 {
		names := make(map[string]*models.User, len(state.participants))
		for _, p := range state.participants {
			names[p.ID] = p
		}
		return names, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, claimants := range state.claims {
		for _, id := range claimants {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return s.store.GetUsersByIDs(ctx, ids)
}

// UpdateBill changes a bill's name, total and, when given, its type.
// Changing the type discards the items or participants of the old mode.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateBill request received",
		"bill_id", req.Msg.BillId,
		"name", req.Msg.Name,
		"total", req.Msg.TotalAmount,
		"bill_type", req.Msg.BillType,
	)

	bill, err := loadBill(ctx, s.store, req.Msg.BillId, userID)
	if err != nil {
		return nil, connectError("UpdateBill", err)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	total, err := money.Parse(req.Msg.TotalAmount)
	if err != nil {
		return nil, connectError("UpdateBill", err)
	}
	if req.Msg.BillType != "" {
		if bill.Type, err = models.ParseBillType(req.Msg.BillType); err != nil {
			return nil, connectError("UpdateBill", err)
		}
	}
	bill.Name = name
	bill.TotalAmount = total

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, connectError("UpdateBill", err)
	}

	// Fetch updated bill to get stored values
	updated, err := s.store.GetBill(ctx, bill.ID)
	if err != nil {
		return nil, connectError("UpdateBill", err)
	}

	slog.Info("Bill updated", "bill_id", bill.ID)
	return connect.NewResponse(&api.UpdateBillResponse{Bill: toAPIBill(updated)}), nil
}

// DeleteBill removes a bill with its items, claims and participants.
// Deleting a bill that no longer exists succeeds.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteBill request received", "bill_id", req.Msg.BillId)

	_, err = loadBill(ctx, s.store, req.Msg.BillId, userID)
	if errors.Is(err, models.ErrNotFound) {
		return connect.NewResponse(&api.DeleteBillResponse{}), nil
	}
	if err != nil {
		return nil, connectError("DeleteBill", err)
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillId); err != nil {
		return nil, connectError("DeleteBill", err)
	}

	slog.Info("Bill deleted", "bill_id", req.Msg.BillId)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// JoinEvenSplit opts the caller into an even bill. Joining twice is a no-op.
func (s *BillService) JoinEvenSplit(ctx context.Context, req *connect.Request[api.JoinEvenSplitRequest]) (*connect.Response[api.JoinEvenSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("JoinEvenSplit request received", "bill_id", req.Msg.BillId, "user_id", userID)

	bill, err := loadBill(ctx, s.store, req.Msg.BillId, userID)
	if err != nil {
		return nil, connectError("JoinEvenSplit", err)
	}
	if err := s.store.AddParticipant(ctx, bill.ID, userID); err != nil {
		return nil, connectError("JoinEvenSplit", err)
	}

	participants, err := s.store.ListParticipants(ctx, bill.ID)
	if err != nil {
		return nil, connectError("JoinEvenSplit", err)
	}
	return connect.NewResponse(&api.JoinEvenSplitResponse{Participants: toAPIUsers(participants)}), nil
}

// LeaveEvenSplit opts the caller out of an even bill. Leaving twice is a no-op.
func (s *BillService) LeaveEvenSplit(ctx context.Context, req *connect.Request[api.LeaveEvenSplitRequest]) (*connect.Response[api.LeaveEvenSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LeaveEvenSplit request received", "bill_id", req.Msg.BillId, "user_id", userID)

	bill, err := loadBill(ctx, s.store, req.Msg.BillId, userID)
	if err != nil {
		return nil, connectError("LeaveEvenSplit", err)
	}
	if err := s.store.RemoveParticipant(ctx, bill.ID, userID); err != nil {
		return nil, connectError("LeaveEvenSplit", err)
	}

	participants, err := s.store.ListParticipants(ctx, bill.ID)
	if err != nil {
		return nil, connectError("LeaveEvenSplit", err)
	}
	return connect.NewResponse(&api.LeaveEvenSplitResponse{Participants: toAPIUsers(participants)}), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/pkg/api"
)

// CreateItem adds a line item to an itemized bill. Quantity defaults to 1.
func (s *BillService) CreateItem(ctx context.Context, req *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateItem request received",
		"bill_id", req.Msg.BillId,
		"name", req.Msg.Name,
		"unit_price", req.Msg.UnitPrice,
		"quantity", req.Msg.Quantity,
	)

	bill, err := loadBill(ctx, s.store, req.Msg.BillId, userID)
	if err != nil {
		return nil, connectError("CreateItem", err)
	}

	quantity := req.Msg.Quantity
	if quantity == 0 {
		quantity = 1
	}
	item, err := parseItem(req.Msg.Name, req.Msg.UnitPrice, quantity)
	if err != nil {
		return nil, connectError("CreateItem", err)
	}
	item.BillID = bill.ID

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, connectError("CreateItem", err)
	}

	slog.Info("Item created", "item_id", item.ID, "bill_id", bill.ID)
	return connect.NewResponse(&api.CreateItemResponse{Item: toAPIItem(item, nil)}), nil
}

// UpdateItem changes an item's name, unit price and quantity. A zero
// quantity keeps the current one.
func (s *BillService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateItem request received", "item_id", req.Msg.ItemId)

	current, _, err := loadItem(ctx, s.store, req.Msg.ItemId, userID)
	if err != nil {
		return nil, connectError("UpdateItem", err)
	}

	quantity := req.Msg.Quantity
	if quantity == 0 {
		quantity = int32(current.Quantity)
	}
	item, err := parseItem(req.Msg.Name, req.Msg.UnitPrice, quantity)
	if err != nil {
		return nil, connectError("UpdateItem", err)
	}
	item.ID = current.ID
	item.BillID = current.BillID
	item.CreatedAt = current.CreatedAt

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, connectError("UpdateItem", err)
	}
	claimants, err := s.store.ClaimantsOf(ctx, item.ID)
	if err != nil {
		return nil, connectError("UpdateItem", err)
	}

	slog.Info("Item updated", "item_id", item.ID)
	return connect.NewResponse(&api.UpdateItemResponse{Item: toAPIItem(item, claimants)}), nil
}

// DeleteItem removes an item and its claims. Deleting an item that no
// longer exists succeeds.
func (s *BillService) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteItem request received", "item_id", req.Msg.ItemId)

	_, _, err = loadItem(ctx, s.store, req.Msg.ItemId, userID)
	if errors.Is(err, models.ErrNotFound) {
		return connect.NewResponse(&api.DeleteItemResponse{}), nil
	}
	if err != nil {
		return nil, connectError("DeleteItem", err)
	}

	if err := s.store.DeleteItem(ctx, req.Msg.ItemId); err != nil {
		return nil, connectError("DeleteItem", err)
	}

	slog.Info("Item deleted", "item_id", req.Msg.ItemId)
	return connect.NewResponse(&api.DeleteItemResponse{}), nil
}

// ClaimItem records that the caller shares an item. Claiming twice is a no-op.
func (s *BillService) ClaimItem(ctx context.Context, req *connect.Request[api.ClaimItemRequest]) (*connect.Response[api.ClaimItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ClaimItem request received", "item_id", req.Msg.ItemId, "user_id", userID)

	item, _, err := loadItem(ctx, s.store, req.Msg.ItemId, userID)
	if err != nil {
		return nil, connectError("ClaimItem", err)
	}
	if err := s.store.Claim(ctx, item.ID, userID); err != nil {
		return nil, connectError("ClaimItem", err)
	}

	claimants, err := s.store.ClaimantsOf(ctx, item.ID)
	if err != nil {
		return nil, connectError("ClaimItem", err)
	}
	return connect.NewResponse(&api.ClaimItemResponse{Item: toAPIItem(item, claimants)}), nil
}

// UnclaimItem removes the caller's claim on an item. Unclaiming an item the
// caller never claimed is a no-op.
func (s *BillService) UnclaimItem(ctx context.Context, req *connect.Request[api.UnclaimItemRequest]) (*connect.Response[api.UnclaimItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UnclaimItem request received", "item_id", req.Msg.ItemId, "user_id", userID)

	item, _, err := loadItem(ctx, s.store, req.Msg.ItemId, userID)
	if err != nil {
		return nil, connectError("UnclaimItem", err)
	}
	if err := s.store.Unclaim(ctx, item.ID, userID); err != nil {
		return nil, connectError("UnclaimItem", err)
	}

	claimants, err := s.store.ClaimantsOf(ctx, item.ID)
	if err != nil {
		return nil, connectError("UnclaimItem", err)
	}
	return connect.NewResponse(&api.UnclaimItemResponse{Item: toAPIItem(item, claimants)}), nil
}

// ListMyItems returns the items of a bill the caller claimed, with what the
// caller owes for them.
func (s *BillService) ListMyItems(ctx context.Context, req *connect.Request[api.ListMyItemsRequest]) (*connect.Response[api.ListMyItemsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := loadBill(ctx, s.store, req.Msg.BillId, userID)
	if err != nil {
		return nil, connectError("ListMyItems", err)
	}
	if bill.Type != models.BillTypeItemized {
		return connect.NewResponse(&api.ListMyItemsResponse{Items: []*api.BillItem{}, Owed: money.Format(money.Zero)}), nil
	}

	mine, err := s.store.ItemsClaimedBy(ctx, bill.ID, userID)
	if err != nil {
		return nil, connectError("ListMyItems", err)
	}
	_, result, err := computeSplit(ctx, s.store, bill)
	if err != nil {
		return nil, connectError("ListMyItems", err)
	}

	items := make([]*api.BillItem, len(mine))
	for i, item := range mine {
		items[i] = toAPIItem(item, nil)
	}
	return connect.NewResponse(&api.ListMyItemsResponse{
		Items: items,
		Owed:  money.Format(result.OwedBy(userID)),
	}), nil
}

// parseItem builds an item from request fields. Quantity and price rules
// are enforced again by the store.
func parseItem(name, unitPrice string, quantity int32) (*models.BillItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", models.ErrInvalidInput)
	}
	price, err := money.Parse(unitPrice)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", models.ErrInvalidInput, quantity)
	}
	return &models.BillItem{Name: name, UnitPrice: price, Quantity: int(quantity)}, nil
}

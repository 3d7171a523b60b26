package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

var errNotMember = fmt.Errorf("%w: not a member of this trip", models.ErrUnauthorized)

// requireUser returns the authenticated caller's user ID.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return userID, nil
}

// requireMember checks that the trip exists and userID belongs to it.
func requireMember(ctx context.Context, store storage.Store, tripID, userID string) (*models.Trip, error) {
	if tripID == "" {
		return nil, fmt.Errorf("%w: trip_id required", models.ErrInvalidInput)
	}
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	ok, err := store.IsMember(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotMember
	}
	return trip, nil
}

// loadBill fetches a bill the caller may access through trip membership.
func loadBill(ctx context.Context, store storage.Store, billID, userID string) (*models.Bill, error) {
	if billID == "" {
		return nil, fmt.Errorf("%w: bill_id required", models.ErrInvalidInput)
	}
	bill, err := store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, store, bill.TripID, userID); err != nil {
		return nil, err
	}
	return bill, nil
}

// loadItem fetches an item and its bill, checking the caller's access.
func loadItem(ctx context.Context, store storage.Store, itemID, userID string) (*models.BillItem, *models.Bill, error) {
	if itemID == "" {
		return nil, nil, fmt.Errorf("%w: item_id required", models.ErrInvalidInput)
	}
	item, err := store.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	bill, err := loadBill(ctx, store, item.BillID, userID)
	if err != nil {
		return nil, nil, err
	}
	return item, bill, nil
}

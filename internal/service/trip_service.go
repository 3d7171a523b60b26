package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/ratelimit"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Ensure TripService implements the Connect handler interface
var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService.
type TripService struct {
	store   storage.Store
	limiter ratelimit.Limiter
}

// NewTripService creates a TripService. joinLimiter throttles JoinTrip
// attempts per user; nil disables throttling.
func NewTripService(store storage.Store, joinLimiter ratelimit.Limiter) *TripService {
	return &TripService{store: store, limiter: joinLimiter}
}

// CreateTrip creates a trip with the caller as its first member.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	slog.Info("CreateTrip request received", "user_id", userID, "name", name)

	if name == "" {
		return nil, invalidArgument("name required")
	}
	hash, err := auth.HashSecret(req.Msg.JoinSecret)
	if err != nil {
		return nil, connectError("CreateTrip", err)
	}

	trip := &models.Trip{Name: name, JoinSecretHash: hash, CreatorID: userID}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, connectError("CreateTrip", err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "join_code", trip.JoinCode)
	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip)}), nil
}

// JoinTrip adds the caller to the trip with the given join code if the
// passphrase matches. Joining a trip twice is a no-op, and repeat joins by
// members do not count against the join rate limit.
func (s *TripService) JoinTrip(ctx context.Context, req *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("JoinTrip request received", "user_id", userID, "join_code", req.Msg.JoinCode)

	if strings.TrimSpace(req.Msg.JoinCode) == "" {
		return nil, invalidArgument("join_code required")
	}

	trip, err := s.store.GetTripByJoinCode(ctx, req.Msg.JoinCode)
	member := false
	if err == nil {
		if member, err = s.store.IsMember(ctx, trip.ID, userID); err != nil {
			return nil, connectError("JoinTrip", err)
		}
	}
	// Repeat joins by members are not attempts
	if !member {
		if limitErr := s.allowJoin(ctx, userID); limitErr != nil {
			return nil, limitErr
		}
	}
	if err != nil {
		return nil, connectError("JoinTrip", err)
	}
	if err := auth.CompareSecret(trip.JoinSecretHash, req.Msg.JoinSecret); err != nil {
		slog.Warn("JoinTrip rejected", "user_id", userID, "trip_id", trip.ID)
		return nil, connectError("JoinTrip", fmt.Errorf("%w: %v", models.ErrUnauthorized, err))
	}
	if err := s.store.AddMember(ctx, trip.ID, userID); err != nil {
		return nil, connectError("JoinTrip", err)
	}

	slog.Info("Trip joined", "trip_id", trip.ID, "user_id", userID)
	return connect.NewResponse(&api.JoinTripResponse{Trip: toAPITrip(trip)}), nil
}

func (s *TripService) allowJoin(ctx context.Context, userID string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		// Fail open when the limiter is unreachable
		slog.Warn("Join rate limiter unavailable", "user_id", userID, "error", err)
		return nil
	}
	if !ok {
		slog.Warn("JoinTrip rate limited", "user_id", userID)
		return connect.NewError(connect.CodeResourceExhausted, errors.New("too many join attempts, try again later"))
	}
	return nil
}

// ListTrips returns the caller's trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.store.ListTripsForUser(ctx, userID)
	if err != nil {
		return nil, connectError("ListTrips", err)
	}

	out := make([]*api.Trip, len(trips))
	for i, t := range trips {
		out[i] = toAPITrip(t)
	}
	slog.Info("ListTrips successful", "user_id", userID, "count", len(trips))
	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// GetTrip returns a trip with its members.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := requireMember(ctx, s.store, req.Msg.TripId, userID)
	if err != nil {
		return nil, connectError("GetTrip", err)
	}
	members, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return nil, connectError("GetTrip", err)
	}

	out := toAPITrip(trip)
	out.Members = toAPIMembers(members)
	return connect.NewResponse(&api.GetTripResponse{Trip: out}), nil
}

// DeleteTrip deletes a trip and everything under it. Only the creator may
// delete; deleting a trip that no longer exists succeeds.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	tripID := req.Msg.TripId
	slog.Info("DeleteTrip request received", "trip_id", tripID, "user_id", userID)

	if tripID == "" {
		return nil, invalidArgument("trip_id required")
	}
	trip, err := s.store.GetTrip(ctx, tripID)
	if errors.Is(err, models.ErrNotFound) {
		return connect.NewResponse(&api.DeleteTripResponse{}), nil
	}
	if err != nil {
		return nil, connectError("DeleteTrip", err)
	}
	if trip.CreatorID != userID {
		return nil, connectError("DeleteTrip", fmt.Errorf("%w: only the trip creator can delete it", models.ErrUnauthorized))
	}

	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		return nil, connectError("DeleteTrip", err)
	}
	slog.Info("Trip deleted", "trip_id", tripID)
	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// GetTripSummary totals what each member owes across all bills of a trip.
func (s *TripService) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetTripSummary request received", "trip_id", req.Msg.TripId)

	trip, err := requireMember(ctx, s.store, req.Msg.TripId, userID)
	if err != nil {
		return nil, connectError("GetTripSummary", err)
	}

	bills, err := s.store.ListBills(ctx, trip.ID)
	if err != nil {
		return nil, connectError("GetTripSummary", err)
	}

	results := make([]*calculator.Result, 0, len(bills))
	grandTotal := money.Zero
	for _, bill := range bills {
		_, result, err := computeSplit(ctx, s.store, bill)
		if err != nil {
			slog.Error("GetTripSummary failed - could not split bill", "bill_id", bill.ID, "error", err)
			return nil, connectError("GetTripSummary", err)
		}
		results = append(results, result)
		grandTotal = grandTotal.Add(bill.TotalAmount)
	}

	members, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return nil, connectError("GetTripSummary", err)
	}
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	totals, unassigned := calculator.TripTotals(results, memberIDs)

	// Shares can belong to users who have since left the trip
	ids := make([]string, len(totals))
	for i, t := range totals {
		ids[i] = t.UserID
	}
	names, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, connectError("GetTripSummary", err)
	}

	out := make([]*api.MemberTotal, len(totals))
	for i, t := range totals {
		out[i] = &api.MemberTotal{
			UserId:      t.UserID,
			DisplayName: displayName(names, t.UserID),
			TotalOwed:   money.Format(t.TotalOwed),
			BillCount:   int32(t.BillCount),
		}
	}

	slog.Info("GetTripSummary successful", "trip_id", trip.ID, "bills", len(bills), "members", len(members))
	return connect.NewResponse(&api.GetTripSummaryResponse{
		TripId:     trip.ID,
		BillCount:  int32(len(bills)),
		GrandTotal: money.Format(grandTotal),
		Totals:     out,
		Unassigned: money.Format(unassigned),
	}), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService.
type TripService struct {
	deps Deps
}

// NewTripService creates a new TripService.
func NewTripService(deps Deps) *TripService {
	return &TripService{deps: deps.withDefaults()}
}

// CreateTrip creates a trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("title is required"))
	}

	trip := &models.Trip{
		Title:         title,
		OwnerID:       userID,
		Collaborators: uniqueIDs(append([]string{userID}, req.Msg.CollaboratorIDs...)),
	}
	if err := s.deps.Store.CreateTrip(ctx, trip); err != nil {
		return nil, storeError("CreateTrip", err)
	}
	slog.Info("Trip created", "trip_id", trip.ID, "owner_id", userID, "collaborators", len(trip.Collaborators))

	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip)}), nil
}

// GetTrip returns a trip and display names for its collaborators.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	trip, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID)
	if err != nil {
		return nil, err
	}

	names, err := s.deps.Names.DisplayNames(ctx, trip.Collaborators)
	if err != nil {
		slog.Error("DisplayNames failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetTripResponse{Trip: toAPITrip(trip), Names: names}), nil
}

// ListTrips returns every trip the caller collaborates on.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.deps.Store.ListTripsByUser(ctx, userID)
	if err != nil {
		return nil, storeError("ListTripsByUser", err)
	}

	out := make([]*api.Trip, len(trips))
	for i, t := range trips {
		out[i] = toAPITrip(t)
	}
	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// AddCollaborators adds users to a trip. Only the owner may do this.
func (s *TripService) AddCollaborators(ctx context.Context, req *connect.Request[api.AddCollaboratorsRequest]) (*connect.Response[api.AddCollaboratorsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	trip, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the trip owner can add collaborators"))
	}

	ids := uniqueIDs(req.Msg.UserIDs)
	if len(ids) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("at least one user_id required"))
	}
	if err := s.deps.Store.AddCollaborators(ctx, trip.ID, ids); err != nil {
		return nil, storeError("AddCollaborators", err)
	}

	trip, err = s.deps.Store.GetTrip(ctx, trip.ID)
	if err != nil {
		return nil, storeError("GetTrip", err)
	}
	slog.Info("Collaborators added", "trip_id", trip.ID, "added", len(ids))

	return connect.NewResponse(&api.AddCollaboratorsResponse{Trip: toAPITrip(trip)}), nil
}

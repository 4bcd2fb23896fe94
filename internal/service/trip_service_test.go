package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/pkg/api"
)

func TestCreateTrip(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")

	resp, err := alice.trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{
		Title:           "  Lisbon  ",
		CollaboratorIDs: []string{"bob", "alice", "bob", ""},
	}))
	require.NoError(t, err)

	trip := resp.Msg.Trip
	assert.NotEmpty(t, trip.TripID)
	assert.Equal(t, "Lisbon", trip.Title)
	assert.Equal(t, "alice", trip.OwnerID)
	assert.ElementsMatch(t, []string{"alice", "bob"}, trip.CollaboratorIDs)
	assert.NotZero(t, trip.CreatedAt)
}

func TestCreateTrip_TitleRequired(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.as(t, "alice").trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{Title: "  "}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestGetTrip(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob")

	resp, err := bob.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: tripID}))
	require.NoError(t, err)
	assert.Equal(t, tripID, resp.Msg.Trip.TripID)
	assert.Equal(t, map[string]string{"alice": "alice", "bob": "bob"}, resp.Msg.Names)

	_, err = env.as(t, "mallory").trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: tripID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = alice.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestGetTrip_NamesFollowProfileUpdates(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob")

	_, err := bob.users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{DisplayName: "Bob"}))
	require.NoError(t, err)

	resp, err := alice.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: tripID}))
	require.NoError(t, err)
	assert.Equal(t, "Bob", resp.Msg.Names["bob"])

	_, err = bob.users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{DisplayName: "Robert"}))
	require.NoError(t, err)

	resp, err = alice.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: tripID}))
	require.NoError(t, err)
	assert.Equal(t, "Robert", resp.Msg.Names["bob"], "cached name should be invalidated")
}

func TestListTrips(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	createTrip(t, alice, "bob")
	createTrip(t, alice)

	resp, err := alice.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Trips, 2)

	resp, err = bob.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Trips, 1)

	resp, err = env.as(t, "carol").trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Trips)
}

func TestAddCollaborators(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob")

	_, err := bob.trips.AddCollaborators(context.Background(), connect.NewRequest(&api.AddCollaboratorsRequest{
		TripID:  tripID,
		UserIDs: []string{"carol"},
	}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = alice.trips.AddCollaborators(context.Background(), connect.NewRequest(&api.AddCollaboratorsRequest{TripID: tripID}))
	assertCode(t, connect.CodeInvalidArgument, err)

	resp, err := alice.trips.AddCollaborators(context.Background(), connect.NewRequest(&api.AddCollaboratorsRequest{
		TripID:  tripID,
		UserIDs: []string{"carol", "bob"},
	}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, resp.Msg.Trip.CollaboratorIDs)

	// carol can now take part in bills.
	evenBill(t, alice, tripID, "alice", "30", "alice", "bob", "carol")
}

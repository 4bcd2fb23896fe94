package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/pkg/api"
)

func TestUpdateProfile(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")

	resp, err := alice.users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{DisplayName: " Alice "}))
	require.NoError(t, err)
	assert.Equal(t, &api.Profile{UserID: "alice", DisplayName: "Alice", Email: "alice@example.com"}, resp.Msg.Profile)

	resp, err = alice.users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{
		DisplayName: "Ali",
		Email:       "ali@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, "ali@example.com", resp.Msg.Profile.Email)

	got, err := alice.users.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "Ali", got.Msg.Profile.DisplayName)
	assert.Equal(t, "ali@example.com", got.Msg.Profile.Email)
}

func TestUpdateProfile_NameRequired(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.as(t, "alice").users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestGetProfile_OtherUser(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")

	_, err := alice.users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{DisplayName: "Alice"}))
	require.NoError(t, err)

	resp, err := bob.users.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{UserID: "alice"}))
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Msg.Profile.DisplayName)
	assert.Empty(t, resp.Msg.Profile.Email, "email is private to its owner")

	_, err = bob.users.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{}))
	assertCode(t, connect.CodeNotFound, err)
}

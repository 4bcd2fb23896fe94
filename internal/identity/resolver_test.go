package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/cache"
	"github.com/mmynk/tripledger/internal/models"
)

type fakeUsers struct {
	users map[string]*models.User
	calls [][]string
	err   error
}

func (f *fakeUsers) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	found := make(map[string]*models.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{
		"u1": {ID: "u1", DisplayName: "Alice"},
		"u2": {ID: "u2", DisplayName: "Bob"},
	}}
}

func TestDisplayNamesCachesHits(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	r := NewResolver(users, cache.NewMemoryCache(), time.Minute)

	names, err := r.DisplayNames(ctx, []string{"u1", "u2", "ghost", "u1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"u1": "Alice", "u2": "Bob", "ghost": "ghost"}, names)
	require.Len(t, users.calls, 1)
	assert.ElementsMatch(t, []string{"u1", "u2", "ghost"}, users.calls[0])

	names, err = r.DisplayNames(ctx, []string{"u1", "u2", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", names["u1"])
	require.Len(t, users.calls, 2)
	assert.Equal(t, []string{"ghost"}, users.calls[1], "only unknown ids go back to the store")
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	r := NewResolver(users, cache.NewMemoryCache(), time.Minute)

	names, err := r.DisplayNames(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", names["u1"])

	users.users["u1"].DisplayName = "Alicia"
	names, _ = r.DisplayNames(ctx, []string{"u1"})
	assert.Equal(t, "Alice", names["u1"], "cached value is served until invalidated")

	require.NoError(t, r.Invalidate(ctx, "u1"))
	names, _ = r.DisplayNames(ctx, []string{"u1"})
	assert.Equal(t, "Alicia", names["u1"])
}

func TestDisplayNamesStoreError(t *testing.T) {
	users := &fakeUsers{err: errors.New("db down")}
	r := NewResolver(users, cache.NewMemoryCache(), 0)

	_, err := r.DisplayNames(context.Background(), []string{"u1"})
	assert.ErrorContains(t, err, "db down")
}

func TestDisplayNamesEmpty(t *testing.T) {
	users := newFakeUsers()
	r := NewResolver(users, cache.NewMemoryCache(), 0)

	names, err := r.DisplayNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, users.calls)
}

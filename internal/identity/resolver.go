// Package identity resolves participant ids to display names.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/tripledger/internal/cache"
	"github.com/mmynk/tripledger/internal/models"
)

// DefaultTTL bounds how long a resolved name may be served from cache.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "display_name:"

// UserLookup is the subset of the store the resolver needs.
type UserLookup interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Resolver maps user ids to display names, cache first and store second.
type Resolver struct {
	users UserLookup
	cache cache.Cache
	ttl   time.Duration
}

// NewResolver creates a Resolver. A non-positive ttl falls back to DefaultTTL.
func NewResolver(users UserLookup, c cache.Cache, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{users: users, cache: c, ttl: ttl}
}

// DisplayNames returns a name for every id in ids. Names missing from the
// cache are fetched from the store in one batch and cached. Ids with no known
// user resolve to themselves and are not cached.
//
// Cache failures are logged and treated as misses.
func (r *Resolver) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	var misses []string

	for _, id := range ids {
		if _, done := names[id]; done || id == "" {
			continue
		}
		name, ok, err := r.cache.Get(ctx, keyPrefix+id)
		if err != nil {
			slog.Warn("Display name cache read failed", "user_id", id, "error", err)
		}
		if ok {
			names[id] = name
			continue
		}
		names[id] = id
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return names, nil
	}

	users, err := r.users.GetUsersByIDs(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}

	for _, id := range misses {
		user, ok := users[id]
		if !ok || user.DisplayName == "" {
			continue
		}
		names[id] = user.DisplayName
		if err := r.cache.Set(ctx, keyPrefix+id, user.DisplayName, r.ttl); err != nil {
			slog.Warn("Display name cache write failed", "user_id", id, "error", err)
		}
	}

	slog.Debug("Resolved display names", "requested", len(ids), "store_lookups", len(misses))
	return names, nil
}

// Invalidate drops the cached name for id, e.g. after the user renames themself.
func (r *Resolver) Invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("failed to invalidate display name for %s: %w", id, err)
	}
	return nil
}

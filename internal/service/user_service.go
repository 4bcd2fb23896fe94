package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// UserService implements the Connect UserService.
type UserService struct {
	deps Deps
}

// NewUserService creates a new UserService.
func NewUserService(deps Deps) *UserService {
	return &UserService{deps: deps.withDefaults()}
}

// UpdateProfile sets the caller's display name, creating the profile on first use.
func (s *UserService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.Msg.DisplayName)
	if displayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("display_name is required"))
	}
	email := strings.TrimSpace(req.Msg.Email)
	if email == "" {
		email = middleware.GetEmail(ctx)
	}

	user := &models.User{
		ID:          userID,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.deps.Store.UpsertUser(ctx, user); err != nil {
		return nil, storeError("UpsertUser", err)
	}
	if err := s.deps.Names.Invalidate(ctx, userID); err != nil {
		slog.Warn("Failed to invalidate cached display name", "user_id", userID, "error", err)
	}
	slog.Info("Profile updated", "user_id", userID)

	return connect.NewResponse(&api.UpdateProfileResponse{Profile: toAPIProfile(user)}), nil
}

// GetProfile returns a profile. An empty user_id means the caller.
func (s *UserService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	target := req.Msg.UserID
	if target == "" {
		target = userID
	}

	user, err := s.deps.Store.GetUserByID(ctx, target)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("user not found: %s", target))
		}
		return nil, storeError("GetUserByID", err)
	}

	profile := toAPIProfile(user)
	if target != userID {
		profile.Email = ""
	}
	return connect.NewResponse(&api.GetProfileResponse{Profile: profile}), nil
}

func toAPIProfile(u *models.User) *api.Profile {
	return &api.Profile{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}

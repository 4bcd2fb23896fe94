package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "tripledger.v1.UserService"

// Procedure paths of the UserService.
const (
	UserServiceUpdateProfileProcedure = "/" + UserServiceName + "/UpdateProfile"
	UserServiceGetProfileProcedure    = "/" + UserServiceName + "/GetProfile"
)

// UserServiceHandler is implemented by the server side of the UserService.
type UserServiceHandler interface {
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, UserServiceUpdateProfileProcedure, svc.UpdateProfile, opts)
	handle(mux, UserServiceGetProfileProcedure, svc.GetProfile, opts)
	return "/" + UserServiceName + "/", mux
}

// UserServiceClient is a client for the UserService.
type UserServiceClient struct {
	updateProfile *connect.Client[api.UpdateProfileRequest, api.UpdateProfileResponse]
	getProfile    *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
}

// NewUserServiceClient constructs a client for the UserService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UserServiceClient {
	return &UserServiceClient{
		updateProfile: newClient[api.UpdateProfileRequest, api.UpdateProfileResponse](httpClient, baseURL, UserServiceUpdateProfileProcedure, opts),
		getProfile:    newClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL, UserServiceGetProfileProcedure, opts),
	}
}

// UpdateProfile calls tripledger.v1.UserService.UpdateProfile.
func (c *UserServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

// GetProfile calls tripledger.v1.UserService.GetProfile.
func (c *UserServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

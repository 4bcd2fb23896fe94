package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService.
const TripServiceName = "tripledger.v1.TripService"

// Procedure paths of the TripService.
const (
	TripServiceCreateTripProcedure       = "/" + TripServiceName + "/CreateTrip"
	TripServiceGetTripProcedure          = "/" + TripServiceName + "/GetTrip"
	TripServiceListTripsProcedure        = "/" + TripServiceName + "/ListTrips"
	TripServiceAddCollaboratorsProcedure = "/" + TripServiceName + "/AddCollaborators"
)

// TripServiceHandler is implemented by the server side of the TripService.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	AddCollaborators(context.Context, *connect.Request[api.AddCollaboratorsRequest]) (*connect.Response[api.AddCollaboratorsResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, TripServiceCreateTripProcedure, svc.CreateTrip, opts)
	handle(mux, TripServiceGetTripProcedure, svc.GetTrip, opts)
	handle(mux, TripServiceListTripsProcedure, svc.ListTrips, opts)
	handle(mux, TripServiceAddCollaboratorsProcedure, svc.AddCollaborators, opts)
	return "/" + TripServiceName + "/", mux
}

// TripServiceClient is a client for the TripService.
type TripServiceClient struct {
	createTrip       *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip          *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips        *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	addCollaborators *connect.Client[api.AddCollaboratorsRequest, api.AddCollaboratorsResponse]
}

// NewTripServiceClient constructs a client for the TripService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TripServiceClient {
	return &TripServiceClient{
		createTrip:       newClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL, TripServiceCreateTripProcedure, opts),
		getTrip:          newClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL, TripServiceGetTripProcedure, opts),
		listTrips:        newClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL, TripServiceListTripsProcedure, opts),
		addCollaborators: newClient[api.AddCollaboratorsRequest, api.AddCollaboratorsResponse](httpClient, baseURL, TripServiceAddCollaboratorsProcedure, opts),
	}
}

// CreateTrip calls tripledger.v1.TripService.CreateTrip.
func (c *TripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

// GetTrip calls tripledger.v1.TripService.GetTrip.
func (c *TripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

// ListTrips calls tripledger.v1.TripService.ListTrips.
func (c *TripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

// AddCollaborators calls tripledger.v1.TripService.AddCollaborators.
func (c *TripServiceClient) AddCollaborators(ctx context.Context, req *connect.Request[api.AddCollaboratorsRequest]) (*connect.Response[api.AddCollaboratorsResponse], error) {
	return c.addCollaborators.CallUnary(ctx, req)
}

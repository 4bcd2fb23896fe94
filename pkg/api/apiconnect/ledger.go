package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "tripledger.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceGetLedgerProcedure          = "/" + LedgerServiceName + "/GetLedger"
	LedgerServiceExportLedgerProcedure       = "/" + LedgerServiceName + "/ExportLedger"
	LedgerServiceSuggestSettlementsProcedure = "/" + LedgerServiceName + "/SuggestSettlements"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	GetLedger(context.Context, *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error)
	ExportLedger(context.Context, *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error)
	SuggestSettlements(context.Context, *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, LedgerServiceGetLedgerProcedure, svc.GetLedger, opts)
	handle(mux, LedgerServiceExportLedgerProcedure, svc.ExportLedger, opts)
	handle(mux, LedgerServiceSuggestSettlementsProcedure, svc.SuggestSettlements, opts)
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	getLedger          *connect.Client[api.GetLedgerRequest, api.GetLedgerResponse]
	exportLedger       *connect.Client[api.ExportLedgerRequest, api.ExportLedgerResponse]
	suggestSettlements *connect.Client[api.SuggestSettlementsRequest, api.SuggestSettlementsResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	return &LedgerServiceClient{
		getLedger:          newClient[api.GetLedgerRequest, api.GetLedgerResponse](httpClient, baseURL, LedgerServiceGetLedgerProcedure, opts),
		exportLedger:       newClient[api.ExportLedgerRequest, api.ExportLedgerResponse](httpClient, baseURL, LedgerServiceExportLedgerProcedure, opts),
		suggestSettlements: newClient[api.SuggestSettlementsRequest, api.SuggestSettlementsResponse](httpClient, baseURL, LedgerServiceSuggestSettlementsProcedure, opts),
	}
}

// GetLedger calls tripledger.v1.LedgerService.GetLedger.
func (c *LedgerServiceClient) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

// ExportLedger calls tripledger.v1.LedgerService.ExportLedger.
func (c *LedgerServiceClient) ExportLedger(ctx context.Context, req *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error) {
	return c.exportLedger.CallUnary(ctx, req)
}

// SuggestSettlements calls tripledger.v1.LedgerService.SuggestSettlements.
func (c *LedgerServiceClient) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	return c.suggestSettlements.CallUnary(ctx, req)
}

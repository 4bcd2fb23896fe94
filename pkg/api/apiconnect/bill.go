package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService.
const BillServiceName = "tripledger.v1.BillService"

// Procedure paths of the BillService.
const (
	BillServiceCreateBillProcedure        = "/" + BillServiceName + "/CreateBill"
	BillServiceFinalizeBillProcedure      = "/" + BillServiceName + "/FinalizeBill"
	BillServicePreviewSplitProcedure      = "/" + BillServiceName + "/PreviewSplit"
	BillServiceGetBillProcedure           = "/" + BillServiceName + "/GetBill"
	BillServiceListBillsProcedure         = "/" + BillServiceName + "/ListBills"
	BillServiceArchiveBillProcedure       = "/" + BillServiceName + "/ArchiveBill"
	BillServiceRestoreBillProcedure       = "/" + BillServiceName + "/RestoreBill"
	BillServiceDeleteBillProcedure        = "/" + BillServiceName + "/DeleteBill"
	BillServiceRecordTransactionProcedure = "/" + BillServiceName + "/RecordTransaction"
	BillServiceListTransactionsProcedure  = "/" + BillServiceName + "/ListTransactions"
	BillServiceDeleteTransactionProcedure = "/" + BillServiceName + "/DeleteTransaction"
)

// BillServiceHandler is implemented by the server side of the BillService.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	FinalizeBill(context.Context, *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error)
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	ArchiveBill(context.Context, *connect.Request[api.ArchiveBillRequest]) (*connect.Response[api.ArchiveBillResponse], error)
	RestoreBill(context.Context, *connect.Request[api.RestoreBillRequest]) (*connect.Response[api.RestoreBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	RecordTransaction(context.Context, *connect.Request[api.RecordTransactionRequest]) (*connect.Response[api.RecordTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, BillServiceCreateBillProcedure, svc.CreateBill, opts)
	handle(mux, BillServiceFinalizeBillProcedure, svc.FinalizeBill, opts)
	handle(mux, BillServicePreviewSplitProcedure, svc.PreviewSplit, opts)
	handle(mux, BillServiceGetBillProcedure, svc.GetBill, opts)
	handle(mux, BillServiceListBillsProcedure, svc.ListBills, opts)
	handle(mux, BillServiceArchiveBillProcedure, svc.ArchiveBill, opts)
	handle(mux, BillServiceRestoreBillProcedure, svc.RestoreBill, opts)
	handle(mux, BillServiceDeleteBillProcedure, svc.DeleteBill, opts)
	handle(mux, BillServiceRecordTransactionProcedure, svc.RecordTransaction, opts)
	handle(mux, BillServiceListTransactionsProcedure, svc.ListTransactions, opts)
	handle(mux, BillServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts)
	return "/" + BillServiceName + "/", mux
}

// BillServiceClient is a client for the BillService.
type BillServiceClient struct {
	createBill        *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	finalizeBill      *connect.Client[api.FinalizeBillRequest, api.FinalizeBillResponse]
	previewSplit      *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
	getBill           *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills         *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	archiveBill       *connect.Client[api.ArchiveBillRequest, api.ArchiveBillResponse]
	restoreBill       *connect.Client[api.RestoreBillRequest, api.RestoreBillResponse]
	deleteBill        *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
	recordTransaction *connect.Client[api.RecordTransactionRequest, api.RecordTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
}

// NewBillServiceClient constructs a client for the BillService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	return &BillServiceClient{
		createBill:        newClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL, BillServiceCreateBillProcedure, opts),
		finalizeBill:      newClient[api.FinalizeBillRequest, api.FinalizeBillResponse](httpClient, baseURL, BillServiceFinalizeBillProcedure, opts),
		previewSplit:      newClient[api.PreviewSplitRequest, api.PreviewSplitResponse](httpClient, baseURL, BillServicePreviewSplitProcedure, opts),
		getBill:           newClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL, BillServiceGetBillProcedure, opts),
		listBills:         newClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL, BillServiceListBillsProcedure, opts),
		archiveBill:       newClient[api.ArchiveBillRequest, api.ArchiveBillResponse](httpClient, baseURL, BillServiceArchiveBillProcedure, opts),
		restoreBill:       newClient[api.RestoreBillRequest, api.RestoreBillResponse](httpClient, baseURL, BillServiceRestoreBillProcedure, opts),
		deleteBill:        newClient[api.DeleteBillRequest, api.DeleteBillResponse](httpClient, baseURL, BillServiceDeleteBillProcedure, opts),
		recordTransaction: newClient[api.RecordTransactionRequest, api.RecordTransactionResponse](httpClient, baseURL, BillServiceRecordTransactionProcedure, opts),
		listTransactions:  newClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL, BillServiceListTransactionsProcedure, opts),
		deleteTransaction: newClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL, BillServiceDeleteTransactionProcedure, opts),
	}
}

// CreateBill calls tripledger.v1.BillService.CreateBill.
func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

// FinalizeBill calls tripledger.v1.BillService.FinalizeBill.
func (c *BillServiceClient) FinalizeBill(ctx context.Context, req *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error) {
	return c.finalizeBill.CallUnary(ctx, req)
}

// PreviewSplit calls tripledger.v1.BillService.PreviewSplit.
func (c *BillServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

// GetBill calls tripledger.v1.BillService.GetBill.
func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

// ListBills calls tripledger.v1.BillService.ListBills.
func (c *BillServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

// ArchiveBill calls tripledger.v1.BillService.ArchiveBill.
func (c *BillServiceClient) ArchiveBill(ctx context.Context, req *connect.Request[api.ArchiveBillRequest]) (*connect.Response[api.ArchiveBillResponse], error) {
	return c.archiveBill.CallUnary(ctx, req)
}

// RestoreBill calls tripledger.v1.BillService.RestoreBill.
func (c *BillServiceClient) RestoreBill(ctx context.Context, req *connect.Request[api.RestoreBillRequest]) (*connect.Response[api.RestoreBillResponse], error) {
	return c.restoreBill.CallUnary(ctx, req)
}

// DeleteBill calls tripledger.v1.BillService.DeleteBill.
func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

// RecordTransaction calls tripledger.v1.BillService.RecordTransaction.
func (c *BillServiceClient) RecordTransaction(ctx context.Context, req *connect.Request[api.RecordTransactionRequest]) (*connect.Response[api.RecordTransactionResponse], error) {
	return c.recordTransaction.CallUnary(ctx, req)
}

// ListTransactions calls tripledger.v1.BillService.ListTransactions.
func (c *BillServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

// DeleteTransaction calls tripledger.v1.BillService.DeleteTransaction.
func (c *BillServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

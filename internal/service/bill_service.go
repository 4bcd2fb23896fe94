package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService.
type BillService struct {
	deps Deps
}

// NewBillService creates a new BillService.
func NewBillService(deps Deps) *BillService {
	return &BillService{deps: deps.withDefaults()}
}

// validatePayerID checks if the payer is one of the participants.
func validatePayerID(payerID string, participants []string) error {
	if !isParticipant(payerID, participants) {
		return fmt.Errorf("payer_id '%s' must be one of the participants", payerID)
	}
	return nil
}

// isParticipant checks if the user is in the participants list.
func isParticipant(userID string, participants []string) bool {
	for _, p := range participants {
		if p == userID {
			return true
		}
	}
	return false
}

// loadBill fetches a bill and checks that userID may see it: the creator,
// a participant, or any collaborator of the bill's trip.
func (s *BillService) loadBill(ctx context.Context, billID, userID string) (*models.Bill, error) {
	if billID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill_id required"))
	}
	bill, err := s.deps.Store.GetBill(ctx, billID)
	if err != nil {
		return nil, storeError("GetBill", err)
	}
	if bill.CreatedBy == userID || bill.HasParticipant(userID) {
		return bill, nil
	}
	if _, err := loadTrip(ctx, s.deps.Store, bill.TripID, userID); err != nil {
		return nil, err
	}
	return bill, nil
}

// CreateBill creates a draft bill owned by the caller.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID); err != nil {
		return nil, err
	}

	category, err := models.ParseCategory(req.Msg.Category)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	bill := &models.Bill{
		TripID:       req.Msg.TripID,
		Title:        req.Msg.Title,
		CreatedBy:    userID,
		PayerID:      userID,
		Participants: []string{userID},
		Summary:      models.NewSummary(),
		Currency:     normalizeCurrency(req.Msg.Currency, s.deps.DefaultCurrency),
		IsDraft:      true,
		Description:  req.Msg.Description,
		Category:     category,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.deps.Store.CreateBill(ctx, bill); err != nil {
		return nil, storeError("CreateBill", err)
	}
	slog.Info("Bill created", "bill_id", bill.ID, "trip_id", bill.TripID, "created_by", userID)

	publish(ctx, s.deps.Publisher, events.BillCreated, bill, userID)

	return connect.NewResponse(&api.CreateBillResponse{Bill: toAPIBill(bill)}), nil
}

// FinalizeBill confirms a bill's split: it validates the input, builds the
// canonical summary and stores it.
func (s *BillService) FinalizeBill(ctx context.Context, req *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.loadBill(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, err
	}
	if bill.CreatedBy != userID && !bill.HasParticipant(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a participant to edit this bill"))
	}
	if bill.Archived {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("archived bills cannot be edited; restore it first"))
	}

	split, err := splitRequest(req.Msg.Split, bill.CreatedBy)
	if err != nil {
		return nil, validationError(s.deps.Metrics, err)
	}
	if len(split.Participants) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("at least one participant required"))
	}
	if err := validatePayerID(split.Payer, split.Participants); err != nil {
		slog.Warn("FinalizeBill payer validation failed", "bill_id", bill.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	trip, err := s.deps.Store.GetTrip(ctx, bill.TripID)
	if err != nil {
		return nil, storeError("GetTrip", err)
	}
	for _, p := range split.Participants {
		if !trip.HasCollaborator(p) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant '%s' is not a collaborator of this trip", p))
		}
	}

	category := bill.Category
	if req.Msg.Category != "" {
		if category, err = models.ParseCategory(req.Msg.Category); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	summary, err := calculator.PrepareSummary(split)
	if err != nil {
		slog.Warn("FinalizeBill split validation failed", "bill_id", bill.ID, "error", err)
		return nil, validationError(s.deps.Metrics, err)
	}

	if req.Msg.Title != "" {
		bill.Title = req.Msg.Title
	}
	if req.Msg.Description != "" {
		bill.Description = req.Msg.Description
	}
	bill.Currency = normalizeCurrency(req.Msg.Currency, bill.Currency)
	bill.Category = category
	bill.PayerID = split.Payer
	bill.Participants = split.Participants
	bill.Summary = summary
	bill.IsDraft = false

	if err := s.deps.Store.UpdateBill(ctx, bill); err != nil {
		return nil, storeError("UpdateBill", err)
	}
	slog.Info("Bill finalized",
		"bill_id", bill.ID,
		"payer_id", bill.PayerID,
		"mode", split.Mode,
		"entries", summary.Len(),
		"total", summary.Total().String(),
	)

	publish(ctx, s.deps.Publisher, events.BillFinalized, bill, userID)

	return connect.NewResponse(&api.FinalizeBillResponse{Bill: toAPIBill(bill)}), nil
}

// PreviewSplit computes a summary without storing anything.
func (s *BillService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	split, err := splitRequest(req.Msg.Split, userID)
	if err != nil {
		return nil, validationError(s.deps.Metrics, err)
	}
	summary, err := calculator.PrepareSummary(split)
	if err != nil {
		return nil, validationError(s.deps.Metrics, err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{
		Summary: toAPISummary(summary),
		Total:   summary.Total().String(),
	}), nil
}

// GetBill returns a bill with the caller's balance in it.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.loadBill(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, err
	}

	ids := append([]string{bill.CreatedBy}, bill.Participants...)
	names, err := s.deps.Names.DisplayNames(ctx, ids)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetBillResponse{
		Bill:        toAPIBill(bill),
		YourBalance: calculator.CalculateBillBalance(bill.Summary, userID).String(),
		Names:       names,
	}), nil
}

// ListBills returns a trip's active (or archived) bills grouped by category.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID); err != nil {
		return nil, err
	}

	bills, err := s.deps.Store.ListBillsByTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, storeError("ListBillsByTrip", err)
	}

	var matching []*models.Bill
	for _, b := range bills {
		if b.Archived == req.Msg.Archived {
			matching = append(matching, b)
		}
	}

	return connect.NewResponse(&api.ListBillsResponse{Sections: groupBySection(matching)}), nil
}

// ArchiveBill marks a bill settled. Only its creator may archive it.
func (s *BillService) ArchiveBill(ctx context.Context, req *connect.Request[api.ArchiveBillRequest]) (*connect.Response[api.ArchiveBillResponse], error) {
	bill, err := s.setArchived(ctx, req.Msg.BillID, true)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ArchiveBillResponse{Bill: toAPIBill(bill)}), nil
}

// RestoreBill makes an archived bill active again.
func (s *BillService) RestoreBill(ctx context.Context, req *connect.Request[api.RestoreBillRequest]) (*connect.Response[api.RestoreBillResponse], error) {
	bill, err := s.setArchived(ctx, req.Msg.BillID, false)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.RestoreBillResponse{Bill: toAPIBill(bill)}), nil
}

func (s *BillService) setArchived(ctx context.Context, billID string, archived bool) (*models.Bill, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.loadBill(ctx, billID, userID)
	if err != nil {
		return nil, err
	}
	if archived && bill.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the bill's creator can archive it"))
	}
	if !archived && bill.CreatedBy != userID && !bill.HasParticipant(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a participant to restore this bill"))
	}
	if bill.Archived == archived {
		return bill, nil
	}

	if err := s.deps.Store.SetBillArchived(ctx, bill.ID, archived); err != nil {
		return nil, storeError("SetBillArchived", err)
	}
	bill.Archived = archived

	eventType := events.BillRestored
	if archived {
		eventType = events.BillArchived
	}
	slog.Info("Bill archive state changed", "bill_id", bill.ID, "archived", archived, "user_id", userID)
	publish(ctx, s.deps.Publisher, eventType, bill, userID)

	return bill, nil
}

// DeleteBill deletes a bill. Only its creator may delete it.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.loadBill(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, err
	}
	if bill.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the bill's creator can delete it"))
	}

	if err := s.deps.Store.DeleteBill(ctx, bill.ID); err != nil {
		return nil, storeError("DeleteBill", err)
	}
	slog.Info("Bill deleted", "bill_id", bill.ID, "user_id", userID)

	publish(ctx, s.deps.Publisher, events.BillDeleted, bill, userID)

	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// RecordTransaction records a payment between two collaborators. The caller
// must be one side of the payment.
func (s *BillService) RecordTransaction(ctx context.Context, req *connect.Request[api.RecordTransactionRequest]) (*connect.Response[api.RecordTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	trip, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Debtor == "" || msg.Creditor == "" || msg.Debtor == msg.Creditor {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("debtor and creditor must be two different users"))
	}
	if userID != msg.Debtor && userID != msg.Creditor {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you can only record payments you made or received"))
	}
	for _, id := range []string{msg.Debtor, msg.Creditor} {
		if !trip.HasCollaborator(id) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("'%s' is not a collaborator of this trip", id))
		}
	}
	amount, err := calculator.ParseAmount(msg.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount must be a positive number"))
	}

	txn := &models.Transaction{
		TripID:      trip.ID,
		Debtor:      msg.Debtor,
		Creditor:    msg.Creditor,
		Amount:      amount,
		Currency:    normalizeCurrency(msg.Currency, s.deps.DefaultCurrency),
		Description: msg.Description,
	}
	if err := s.deps.Store.CreateTransaction(ctx, txn); err != nil {
		return nil, storeError("CreateTransaction", err)
	}
	slog.Info("Transaction recorded", "transaction_id", txn.ID, "trip_id", trip.ID, "amount", amount.String())

	return connect.NewResponse(&api.RecordTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// ListTransactions returns a trip's recorded payments, newest first.
func (s *BillService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID); err != nil {
		return nil, err
	}

	txns, err := s.deps.Store.ListTransactionsByTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, storeError("ListTransactionsByTrip", err)
	}

	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = toAPITransaction(t)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// DeleteTransaction removes a recorded payment. Only its debtor or creditor
// may delete it.
func (s *BillService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadTrip(ctx, s.deps.Store, req.Msg.TripID, userID); err != nil {
		return nil, err
	}

	txns, err := s.deps.Store.ListTransactionsByTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, storeError("ListTransactionsByTrip", err)
	}
	var target *models.Transaction
	for _, t := range txns {
		if t.ID == req.Msg.TransactionID {
			target = t
			break
		}
	}
	if target == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("transaction not found: %s", req.Msg.TransactionID))
	}
	if target.Debtor != userID && target.Creditor != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you can only delete payments you made or received"))
	}

	if err := s.deps.Store.DeleteTransaction(ctx, target.ID); err != nil {
		return nil, storeError("DeleteTransaction", err)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/report"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	deps Deps
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(deps Deps) *LedgerService {
	return &LedgerService{deps: deps.withDefaults()}
}

// tripBills holds the active bills of one trip in a single currency.
type tripBills struct {
	trip     *models.Trip
	currency string
	bills    []models.Bill
}

// loadTripBills loads the caller's trip and its active bills, narrowed to one
// currency. Without an explicit currency the trip must use exactly one.
func (s *LedgerService) loadTripBills(ctx context.Context, tripID, userID, currency string) (*tripBills, error) {
	trip, err := loadTrip(ctx, s.deps.Store, tripID, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.deps.Store.ListBillsByTrip(ctx, trip.ID)
	if err != nil {
		return nil, storeError("ListBillsByTrip", err)
	}
	bills := make([]models.Bill, 0, len(stored))
	for _, b := range stored {
		if !b.Archived {
			bills = append(bills, *b)
		}
	}

	currency, err = calculator.ResolveCurrency(bills, currency, s.deps.DefaultCurrency)
	if err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%w; pick one", err))
	}

	return &tripBills{
		trip:     trip,
		currency: currency,
		bills:    calculator.FilterByCurrency(bills, currency),
	}, nil
}

func (s *LedgerService) ledger(ctx context.Context, tripID, currency string) (*tripBills, calculator.Ledger, map[string]string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, calculator.Ledger{}, nil, err
	}
	tb, err := s.loadTripBills(ctx, tripID, userID, currency)
	if err != nil {
		return nil, calculator.Ledger{}, nil, err
	}

	ledger := calculator.CalculateLedger(tb.bills, userID, tb.trip.Collaborators)
	s.deps.Metrics.ObserveLedger()

	names, err := s.deps.Names.DisplayNames(ctx, ledger.Counterparties())
	if err != nil {
		slog.Error("DisplayNames failed", "error", err)
		return nil, calculator.Ledger{}, nil, connect.NewError(connect.CodeInternal, err)
	}
	return tb, ledger, names, nil
}

// GetLedger returns the caller's net position against every collaborator.
func (s *LedgerService) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	tb, ledger, names, err := s.ledger(ctx, req.Msg.TripID, req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	balances := make([]*api.CounterpartyBalance, 0, len(ledger.Balances))
	for _, id := range ledger.Counterparties() {
		balances = append(balances, &api.CounterpartyBalance{
			UserID:      id,
			DisplayName: names[id],
			Amount:      ledger.Balances[id].String(),
		})
	}

	slog.Debug("Ledger computed",
		"trip_id", tb.trip.ID,
		"subject", ledger.Subject,
		"bills", len(tb.bills),
		"net", ledger.NetBalance.String(),
	)

	return connect.NewResponse(&api.GetLedgerResponse{
		Ledger: &api.Ledger{
			SubjectID:       ledger.Subject,
			Currency:        tb.currency,
			Balances:        balances,
			TotalReceivable: ledger.TotalReceivable.String(),
			TotalPayable:    ledger.TotalPayable.String(),
			NetBalance:      ledger.NetBalance.String(),
		},
	}), nil
}

// ExportLedger renders the caller's ledger as CSV.
func (s *LedgerService) ExportLedger(ctx context.Context, req *connect.Request[api.ExportLedgerRequest]) (*connect.Response[api.ExportLedgerResponse], error) {
	tb, ledger, names, err := s.ledger(ctx, req.Msg.TripID, req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := report.WriteLedgerCSV(&buf, ledger, names, tb.currency); err != nil {
		slog.Error("WriteLedgerCSV failed", "trip_id", tb.trip.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ExportLedgerResponse{CSV: buf.String()}), nil
}

// SuggestSettlements returns every member's net position in the trip and a
// short list of payments that settles them.
func (s *LedgerService) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	tb, err := s.loadTripBills(ctx, req.Msg.TripID, userID, req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	memberBalances, edges := calculator.CalculateGroupBalances(tb.bills)

	ids := make([]string, len(memberBalances))
	for i, mb := range memberBalances {
		ids[i] = mb.MemberID
	}
	names, err := s.deps.Names.DisplayNames(ctx, ids)
	if err != nil {
		slog.Error("DisplayNames failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	members := make([]*api.MemberBalance, len(memberBalances))
	for i, mb := range memberBalances {
		members[i] = &api.MemberBalance{
			UserID:      mb.MemberID,
			DisplayName: names[mb.MemberID],
			NetBalance:  mb.NetBalance.String(),
			TotalOwedTo: mb.TotalOwedTo.String(),
			TotalOwes:   mb.TotalOwes.String(),
		}
	}

	transfers := make([]*api.Transfer, len(edges))
	for i, e := range edges {
		transfers[i] = &api.Transfer{
			FromID:   e.From,
			FromName: names[e.From],
			ToID:     e.To,
			ToName:   names[e.To],
			Amount:   e.Amount.StringFixed(2),
		}
	}

	slog.Info("Settlements suggested", "trip_id", tb.trip.ID, "members", len(members), "transfers", len(transfers))

	return connect.NewResponse(&api.SuggestSettlementsResponse{
		Currency:  tb.currency,
		Members:   members,
		Transfers: transfers,
	}), nil
}

// Package service implements the tripledger Connect services on top of the
// store, the ledger calculator and the supporting infrastructure.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/identity"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
)

// Deps bundles what every service needs. Publisher and Metrics are optional.
type Deps struct {
	Store           storage.Store
	Names           *identity.Resolver
	Publisher       events.Publisher
	Metrics         *metrics.Metrics
	DefaultCurrency string
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	d.DefaultCurrency = normalizeCurrency(d.DefaultCurrency, models.DefaultCurrency)
	return d
}

// requireUser returns the authenticated caller's id.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// storeError maps a storage failure to a Connect error.
func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

// loadTrip fetches a trip and checks that userID collaborates on it.
func loadTrip(ctx context.Context, store storage.Store, tripID, userID string) (*models.Trip, error) {
	if tripID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("trip_id required"))
	}
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, storeError("GetTrip", err)
	}
	if !trip.HasCollaborator(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a collaborator of this trip"))
	}
	return trip, nil
}

// publish sends a bill event. Failures are logged and never surface to the caller.
func publish(ctx context.Context, p events.Publisher, eventType events.EventType, bill *models.Bill, actor string) {
	event := events.BillEvent{
		Type:         eventType,
		BillID:       bill.ID,
		TripID:       bill.TripID,
		ActorID:      actor,
		Participants: bill.Participants,
		Currency:     bill.Currency,
		Total:        bill.Summary.Total().String(),
		Timestamp:    time.Now().UTC(),
	}
	if err := p.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish bill event", "type", eventType, "bill_id", bill.ID, "error", err)
	}
}

// normalizeCurrency upper-cases a currency code, falling back to def.
func normalizeCurrency(raw, def string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return def
	}
	return c
}

func toAPISummary(s models.Summary) []api.SummaryEntry {
	entries := s.Entries()
	out := make([]api.SummaryEntry, len(entries))
	for i, e := range entries {
		out[i] = api.SummaryEntry{Debtor: e.Debtor, Creditor: e.Creditor, Amount: e.Amount.String()}
	}
	return out
}

func toAPIBill(b *models.Bill) *api.Bill {
	return &api.Bill{
		BillID:         b.ID,
		TripID:         b.TripID,
		Title:          b.Title,
		CreatedBy:      b.CreatedBy,
		PayerID:        b.PayerID,
		ParticipantIDs: b.Participants,
		Summary:        toAPISummary(b.Summary),
		Total:          b.Summary.Total().String(),
		Currency:       b.Currency,
		Archived:       b.Archived,
		IsDraft:        b.IsDraft,
		Description:    b.Description,
		Category:       b.Category.String(),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toAPITrip(t *models.Trip) *api.Trip {
	return &api.Trip{
		TripID:          t.ID,
		Title:           t.Title,
		OwnerID:         t.OwnerID,
		CollaboratorIDs: t.Collaborators,
		CreatedAt:       t.CreatedAt,
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		TransactionID: t.ID,
		TripID:        t.TripID,
		Debtor:        t.Debtor,
		Creditor:      t.Creditor,
		Amount:        t.Amount.String(),
		Currency:      t.Currency,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

// groupBySection buckets bills by category label. Sections are sorted by
// label with the uncategorized section last; bills keep their input order.
func groupBySection(bills []*models.Bill) []*api.BillSection {
	byLabel := make(map[string]*api.BillSection)
	var labels []string
	for _, b := range bills {
		label := b.Category.Label()
		section, ok := byLabel[label]
		if !ok {
			section = &api.BillSection{Label: label}
			byLabel[label] = section
			labels = append(labels, label)
		}
		section.Bills = append(section.Bills, toAPIBill(b))
	}

	sort.Slice(labels, func(i, j int) bool {
		if (labels[i] == models.UncategorizedLabel) != (labels[j] == models.UncategorizedLabel) {
			return labels[j] == models.UncategorizedLabel
		}
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})

	sections := make([]*api.BillSection, len(labels))
	for i, label := range labels {
		sections[i] = byLabel[label]
	}
	return sections
}

// splitRequest converts wire split input into a calculator request.
func splitRequest(in api.SplitInput, defaultPayer string) (calculator.SplitRequest, error) {
	mode, err := calculator.ParseMode(in.Mode)
	if err != nil {
		return calculator.SplitRequest{}, err
	}
	payer := in.PayerID
	if payer == "" {
		payer = defaultPayer
	}
	return calculator.SplitRequest{
		Mode:          mode,
		Payer:         payer,
		Participants:  uniqueIDs(in.ParticipantIDs),
		Total:         in.Total,
		CustomAmounts: in.CustomAmounts,
		CustomTotal:   in.CustomTotal,
	}, nil
}

// validationError converts a calculator validation failure into
// InvalidArgument and counts it.
func validationError(m *metrics.Metrics, err error) error {
	var ve *calculator.ValidationError
	if errors.As(err, &ve) {
		m.ObserveValidationFailure(ve.Field)
	}
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/pkg/api"
)

func ledgerFor(t *testing.T, c *testClients, tripID, currency string) *api.Ledger {
	t.Helper()
	resp, err := c.ledger.GetLedger(context.Background(), connect.NewRequest(&api.GetLedgerRequest{TripID: tripID, Currency: currency}))
	require.NoError(t, err)
	return resp.Msg.Ledger
}

func balancesByID(l *api.Ledger) map[string]string {
	out := make(map[string]string, len(l.Balances))
	for _, b := range l.Balances {
		out[b.UserID] = b.Amount
	}
	return out
}

func TestGetLedger_EvenSplit(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob", "carol")
	evenBill(t, alice, tripID, "alice", "30", "alice", "bob", "carol")

	l := ledgerFor(t, alice, tripID, "")
	assert.Equal(t, "alice", l.SubjectID)
	assert.Equal(t, "USD", l.Currency)
	assert.Equal(t, map[string]string{"bob": "10", "carol": "10"}, balancesByID(l))
	assert.Equal(t, "20", l.TotalReceivable)
	assert.Equal(t, "0", l.TotalPayable)
	assert.Equal(t, "20", l.NetBalance)

	l = ledgerFor(t, bob, tripID, "")
	assert.Equal(t, map[string]string{"alice": "-10", "carol": "0"}, balancesByID(l))
	assert.Equal(t, "0", l.TotalReceivable)
	assert.Equal(t, "10", l.TotalPayable)
	assert.Equal(t, "-10", l.NetBalance)

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.LedgerComputations))
}

func TestGetLedger_NetsAcrossBills(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob")

	evenBill(t, alice, tripID, "alice", "40", "alice", "bob")
	evenBill(t, bob, tripID, "bob", "10", "alice", "bob")

	l := ledgerFor(t, alice, tripID, "")
	assert.Equal(t, map[string]string{"bob": "15"}, balancesByID(l))
	assert.Equal(t, "15", l.NetBalance)
}

func TestGetLedger_NoBills(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	tripID := createTrip(t, alice, "bob")

	l := ledgerFor(t, alice, tripID, "")
	assert.Equal(t, map[string]string{"bob": "0"}, balancesByID(l))
	assert.Equal(t, "0", l.NetBalance)
	assert.Equal(t, "USD", l.Currency)
}

func TestGetLedger_ExcludesArchived(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	tripID := createTrip(t, alice, "bob")
	evenBill(t, alice, tripID, "alice", "10", "alice", "bob")
	settled := evenBill(t, alice, tripID, "alice", "100", "alice", "bob")

	_, err := alice.bills.ArchiveBill(context.Background(), connect.NewRequest(&api.ArchiveBillRequest{BillID: settled.BillID}))
	require.NoError(t, err)

	l := ledgerFor(t, alice, tripID, "")
	assert.Equal(t, map[string]string{"bob": "5"}, balancesByID(l))
}

func TestGetLedger_MixedCurrencies(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	tripID := createTrip(t, alice, "bob")

	evenBill(t, alice, tripID, "alice", "10", "alice", "bob")
	eur := createBill(t, alice, tripID, api.CreateBillRequest{Currency: "eur"})
	finalize(t, alice, eur.BillID, api.SplitInput{ParticipantIDs: []string{"alice", "bob"}, Total: "50"})

	_, err := alice.ledger.GetLedger(context.Background(), connect.NewRequest(&api.GetLedgerRequest{TripID: tripID}))
	assertCode(t, connect.CodeFailedPrecondition, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Contains(t, connectErr.Message(), calculator.ErrMixedCurrencies.Error())

	l := ledgerFor(t, alice, tripID, "eur")
	assert.Equal(t, "EUR", l.Currency)
	assert.Equal(t, map[string]string{"bob": "25"}, balancesByID(l))

	l = ledgerFor(t, alice, tripID, "USD")
	assert.Equal(t, map[string]string{"bob": "5"}, balancesByID(l))
}

func TestGetLedger_NotCollaborator(t *testing.T) {
	env := setupTestServer(t)
	tripID := createTrip(t, env.as(t, "alice"), "bob")

	_, err := env.as(t, "mallory").ledger.GetLedger(context.Background(), connect.NewRequest(&api.GetLedgerRequest{TripID: tripID}))
	assertCode(t, connect.CodePermissionDenied, err)
}

func TestExportLedger(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob", "carol")
	evenBill(t, alice, tripID, "alice", "30", "alice", "bob", "carol")

	_, err := bob.users.UpdateProfile(context.Background(), connect.NewRequest(&api.UpdateProfileRequest{DisplayName: "Bob"}))
	require.NoError(t, err)

	resp, err := alice.ledger.ExportLedger(context.Background(), connect.NewRequest(&api.ExportLedgerRequest{TripID: tripID}))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(resp.Msg.CSV), "\n")
	assert.Equal(t, []string{
		"counterparty_id,counterparty_name,direction,amount,currency",
		"bob,Bob,receivable,10.00,USD",
		"carol,carol,receivable,10.00,USD",
	}, lines)
}

func TestSuggestSettlements(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	bob := env.as(t, "bob")
	tripID := createTrip(t, alice, "bob", "carol")

	// bob and carol each owe alice 10.
	evenBill(t, alice, tripID, "alice", "30", "alice", "bob", "carol")
	// carol owes bob 20.
	bill := createBill(t, bob, tripID, api.CreateBillRequest{})
	finalize(t, bob, bill.BillID, api.SplitInput{
		Mode:           "custom",
		ParticipantIDs: []string{"bob", "carol"},
		CustomAmounts:  map[string]string{"carol": "20"},
		CustomTotal:    "20",
	})

	resp, err := alice.ledger.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{TripID: tripID}))
	require.NoError(t, err)

	assert.Equal(t, "USD", resp.Msg.Currency)
	require.Len(t, resp.Msg.Members, 3)
	nets := make(map[string]string)
	for _, m := range resp.Msg.Members {
		nets[m.UserID] = m.NetBalance
	}
	assert.Equal(t, map[string]string{"alice": "20", "bob": "10", "carol": "-30"}, nets)

	require.Len(t, resp.Msg.Transfers, 2)
	assert.Equal(t, "carol", resp.Msg.Transfers[0].FromID)
	assert.Equal(t, "alice", resp.Msg.Transfers[0].ToID)
	assert.Equal(t, "20.00", resp.Msg.Transfers[0].Amount)
	assert.Equal(t, "carol", resp.Msg.Transfers[1].FromID)
	assert.Equal(t, "bob", resp.Msg.Transfers[1].ToID)
	assert.Equal(t, "10.00", resp.Msg.Transfers[1].Amount)
}

func TestSuggestSettlements_AllSettled(t *testing.T) {
	env := setupTestServer(t)
	alice := env.as(t, "alice")
	tripID := createTrip(t, alice, "bob")

	resp, err := alice.ledger.SuggestSettlements(context.Background(), connect.NewRequest(&api.SuggestSettlementsRequest{TripID: tripID}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Members)
	assert.Empty(t, resp.Msg.Transfers)
}

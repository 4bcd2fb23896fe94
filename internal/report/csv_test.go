package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/calculator"
)

func TestWriteLedgerCSV(t *testing.T) {
	ledger := calculator.Ledger{
		Subject: "alice",
		Balances: map[string]decimal.Decimal{
			"carol": decimal.RequireFromString("3.333333"),
			"bob":   decimal.NewFromInt(-5),
			"dave":  decimal.Zero,
		},
	}
	names := map[string]string{"bob": "Bob", "carol": "Carol"}

	var buf bytes.Buffer
	require.NoError(t, WriteLedgerCSV(&buf, ledger, names, "EUR"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"counterparty_id,counterparty_name,direction,amount,currency",
		"bob,Bob,payable,5.00,EUR",
		"carol,Carol,receivable,3.33,EUR",
		"dave,dave,settled,0.00,EUR",
	}, lines)
}

func TestWriteTransfersCSV(t *testing.T) {
	edges := []calculator.DebtEdge{
		{From: "carol", To: "bob", Amount: decimal.NewFromInt(20)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransfersCSV(&buf, edges, map[string]string{"bob": "Bob"}, "USD"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"from_id,from_name,to_id,to_name,amount,currency",
		"carol,carol,bob,Bob,20.00,USD",
	}, lines)
}

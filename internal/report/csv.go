// Package report renders ledgers and settle-up plans as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/mmynk/tripledger/internal/calculator"
)

// Directions reported for each counterparty.
const (
	DirectionReceivable = "receivable"
	DirectionPayable    = "payable"
	DirectionSettled    = "settled"
)

// LedgerRow is one counterparty line of a ledger export.
type LedgerRow struct {
	CounterpartyID   string `csv:"counterparty_id"`
	CounterpartyName string `csv:"counterparty_name"`
	Direction        string `csv:"direction"`
	Amount           string `csv:"amount"`
	Currency         string `csv:"currency"`
}

// TransferRow is one suggested payment of a settle-up export.
type TransferRow struct {
	FromID   string `csv:"from_id"`
	FromName string `csv:"from_name"`
	ToID     string `csv:"to_id"`
	ToName   string `csv:"to_name"`
	Amount   string `csv:"amount"`
	Currency string `csv:"currency"`
}

// LedgerRows converts a ledger into rows sorted by counterparty id. Amounts
// are absolute and rounded to cents; the direction carries the sign.
func LedgerRows(ledger calculator.Ledger, names map[string]string, currency string) []LedgerRow {
	rows := make([]LedgerRow, 0, len(ledger.Balances))
	for _, id := range ledger.Counterparties() {
		amount := ledger.Balances[id]
		direction := DirectionSettled
		switch {
		case amount.IsPositive():
			direction = DirectionReceivable
		case amount.IsNegative():
			direction = DirectionPayable
		}
		rows = append(rows, LedgerRow{
			CounterpartyID:   id,
			CounterpartyName: nameOf(names, id),
			Direction:        direction,
			Amount:           amount.Abs().StringFixed(2),
			Currency:         currency,
		})
	}
	return rows
}

// WriteLedgerCSV writes a ledger as CSV with a header row.
func WriteLedgerCSV(w io.Writer, ledger calculator.Ledger, names map[string]string, currency string) error {
	rows := LedgerRows(ledger, names, currency)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csv.NewWriter(w))); err != nil {
		return fmt.Errorf("error writing ledger CSV: %w", err)
	}
	return nil
}

// WriteTransfersCSV writes suggested settle-up payments as CSV with a header row.
func WriteTransfersCSV(w io.Writer, edges []calculator.DebtEdge, names map[string]string, currency string) error {
	rows := make([]TransferRow, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, TransferRow{
			FromID:   e.From,
			FromName: nameOf(names, e.From),
			ToID:     e.To,
			ToName:   nameOf(names, e.To),
			Amount:   e.Amount.StringFixed(2),
			Currency: currency,
		})
	}
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csv.NewWriter(w))); err != nil {
		return fmt.Errorf("error writing transfers CSV: %w", err)
	}
	return nil
}

func nameOf(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

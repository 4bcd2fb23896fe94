package models

import "github.com/shopspring/decimal"

// Transaction records a payment from a debtor to a creditor within a trip,
// typically made when settling up. Transactions are kept for history and
// are not folded into bill summaries.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// TripID is the trip this transaction belongs to.
	TripID string

	// Debtor is the user who paid.
	Debtor string

	// Creditor is the user who received the payment.
	Creditor string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Currency is the currency code of Amount.
	Currency string

	// Description is an optional note.
	Description string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}

package calculator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/shopspring/decimal"
)

// Ledger is a subject's net position against every counterparty.
type Ledger struct {
	Subject string

	// Balances maps counterparty id to a signed amount.
	// Positive = counterparty owes the subject, negative = the subject owes them.
	Balances map[string]decimal.Decimal

	TotalReceivable decimal.Decimal
	TotalPayable    decimal.Decimal
	NetBalance      decimal.Decimal
}

// Counterparties returns the ledger's counterparty ids in sorted order.
func (l Ledger) Counterparties() []string {
	ids := make([]string, 0, len(l.Balances))
	for id := range l.Balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CalculateBillBalance returns subject's signed position within one bill:
// amounts owed to the subject count positive, amounts the subject owes count
// negative. A subject absent from the summary gets zero.
func CalculateBillBalance(summary models.Summary, subject string) decimal.Decimal {
	balance := decimal.Zero
	for debtor, credits := range summary {
		for creditor, amount := range credits {
			if debtor == subject {
				balance = balance.Sub(amount)
			}
			if creditor == subject {
				balance = balance.Add(amount)
			}
		}
	}
	return balance
}

// CalculateLedger aggregates subject's balance against each counterparty over
// all non-archived bills.
//
// Every collaborator other than the subject is seeded with zero so that
// counterparties without debts are still reported. Triples that do not
// involve the subject are ignored.
func CalculateLedger(bills []models.Bill, subject string, collaborators []string) Ledger {
	balances := make(map[string]decimal.Decimal, len(collaborators))
	for _, c := range collaborators {
		if c != subject {
			balances[c] = decimal.Zero
		}
	}

	for _, bill := range bills {
		if bill.Archived {
			continue
		}
		for debtor, credits := range bill.Summary {
			for creditor, amount := range credits {
				switch {
				case debtor == subject && creditor != subject:
					balances[creditor] = balances[creditor].Sub(amount)
				case creditor == subject && debtor != subject:
					balances[debtor] = balances[debtor].Add(amount)
				}
			}
		}
	}

	receivable := decimal.Zero
	payable := decimal.Zero
	for _, amount := range balances {
		if amount.IsPositive() {
			receivable = receivable.Add(amount)
		} else if amount.IsNegative() {
			payable = payable.Add(amount.Abs())
		}
	}

	return Ledger{
		Subject:         subject,
		Balances:        balances,
		TotalReceivable: receivable,
		TotalPayable:    payable,
		NetBalance:      receivable.Sub(payable),
	}
}

// Currencies lists the distinct currencies of the active bills that carry
// debts, sorted. More than one entry means the bills cannot be aggregated
// without filtering first.
func Currencies(bills []models.Bill) []string {
	seen := make(map[string]bool)
	var currencies []string
	for _, bill := range bills {
		if bill.Archived || bill.Summary.Len() == 0 || seen[bill.Currency] {
			continue
		}
		seen[bill.Currency] = true
		currencies = append(currencies, bill.Currency)
	}
	sort.Strings(currencies)
	return currencies
}

// ResolveCurrency picks the currency to aggregate bills in. An explicit
// request wins; otherwise the bills' single currency is used, falling back to
// def when no bill carries debts. Several currencies without a request yield
// an error wrapping ErrMixedCurrencies.
func ResolveCurrency(bills []models.Bill, requested, def string) (string, error) {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c, nil
	}
	switch currencies := Currencies(bills); len(currencies) {
	case 0:
		return def, nil
	case 1:
		return currencies[0], nil
	default:
		return "", fmt.Errorf("%w (%s)", ErrMixedCurrencies, strings.Join(currencies, ", "))
	}
}

// FilterByCurrency returns the bills whose currency equals currency.
func FilterByCurrency(bills []models.Bill, currency string) []models.Bill {
	var filtered []models.Bill
	for _, bill := range bills {
		if bill.Currency == currency {
			filtered = append(filtered, bill)
		}
	}
	return filtered
}

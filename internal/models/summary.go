package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary maps debtor -> creditor -> amount owed for a single bill.
type Summary map[string]map[string]decimal.Decimal

// Entry is one (debtor, creditor, amount) triple of a Summary.
type Entry struct {
	Debtor   string
	Creditor string
	Amount   decimal.Decimal
}

// NewSummary returns an empty summary.
func NewSummary() Summary {
	return make(Summary)
}

// Add records that debtor owes creditor amount, accumulating onto any existing
// entry. Non-positive amounts and self-debts are dropped.
func (s Summary) Add(debtor, creditor string, amount decimal.Decimal) {
	if debtor == creditor || !amount.IsPositive() {
		return
	}
	credits, ok := s[debtor]
	if !ok {
		credits = make(map[string]decimal.Decimal)
		s[debtor] = credits
	}
	credits[creditor] = credits[creditor].Add(amount)
}

// Entries returns every triple ordered by debtor, then creditor.
func (s Summary) Entries() []Entry {
	var entries []Entry
	for debtor, credits := range s {
		for creditor, amount := range credits {
			entries = append(entries, Entry{Debtor: debtor, Creditor: creditor, Amount: amount})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Debtor != entries[j].Debtor {
			return entries[i].Debtor < entries[j].Debtor
		}
		return entries[i].Creditor < entries[j].Creditor
	})
	return entries
}

// Total is the sum of every amount in the summary. For a finalized bill this
// is the part of the bill's total that other participants owe the payer.
func (s Summary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, credits := range s {
		for _, amount := range credits {
			total = total.Add(amount)
		}
	}
	return total
}

// Len returns the number of entries.
func (s Summary) Len() int {
	n := 0
	for _, credits := range s {
		n += len(credits)
	}
	return n
}

// Owed returns the amount debtor owes creditor, zero if none.
func (s Summary) Owed(debtor, creditor string) decimal.Decimal {
	return s[debtor][creditor]
}

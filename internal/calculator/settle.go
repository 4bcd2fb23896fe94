package calculator

import (
	"sort"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/shopspring/decimal"
)

// settleThreshold is the smallest amount worth a settlement transfer.
var settleThreshold = decimal.New(1, -2)

// MemberBalance is one member's aggregate position across a trip's bills.
type MemberBalance struct {
	MemberID    string
	NetBalance  decimal.Decimal // Positive = owed money, Negative = owes money
	TotalOwedTo decimal.Decimal // What others owe this member
	TotalOwes   decimal.Decimal // What this member owes others
}

// DebtEdge represents a suggested payment from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// CalculateGroupBalances computes every member's net position over the
// non-archived bills and a reduced set of transfers that settles them.
//
// Algorithm:
// - For each summary entry: creditor's TotalOwedTo grows, debtor's TotalOwes grows
// - net_balance = total_owed_to - total_owes
// - Transfers: greedy matching of the largest debtor with the largest creditor
func CalculateGroupBalances(bills []models.Bill) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		if _, exists := balances[id]; !exists {
			balances[id] = &MemberBalance{
				MemberID:    id,
				NetBalance:  decimal.Zero,
				TotalOwedTo: decimal.Zero,
				TotalOwes:   decimal.Zero,
			}
		}
		return balances[id]
	}

	for _, bill := range bills {
		if bill.Archived {
			continue
		}
		for _, entry := range bill.Summary.Entries() {
			debtor := member(entry.Debtor)
			creditor := member(entry.Creditor)
			debtor.TotalOwes = debtor.TotalOwes.Add(entry.Amount)
			creditor.TotalOwedTo = creditor.TotalOwedTo.Add(entry.Amount)
		}
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalOwedTo.Sub(bal.TotalOwes)
		memberBalances = append(memberBalances, *bal)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].MemberID < memberBalances[j].MemberID
	})

	return memberBalances, SimplifyDebts(memberBalances)
}

// SimplifyDebts matches debtors with creditors to minimise the number of
// transfers. Amounts below one cent are treated as settled.
func SimplifyDebts(memberBalances []MemberBalance) []DebtEdge {
	type position struct {
		id     string
		amount decimal.Decimal
	}
	var creditors, debtors []position
	for _, bal := range memberBalances {
		if bal.NetBalance.IsPositive() {
			creditors = append(creditors, position{bal.MemberID, bal.NetBalance})
		} else if bal.NetBalance.IsNegative() {
			debtors = append(debtors, position{bal.MemberID, bal.NetBalance.Neg()})
		}
	}
	byLargest := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if c := p[i].amount.Cmp(p[j].amount); c != 0 {
				return c > 0
			}
			return p[i].id < p[j].id
		}
	}
	sort.Slice(creditors, byLargest(creditors))
	sort.Slice(debtors, byLargest(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.GreaterThanOrEqual(settleThreshold) {
			edges = append(edges, DebtEdge{From: debtors[i].id, To: creditors[j].id, Amount: amount})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThan(settleThreshold) {
			i++
		}
		if creditors[j].amount.LessThan(settleThreshold) {
			j++
		}
	}
	return edges
}

package calculator

import (
	"math/rand"
	"testing"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billWith(id, currency string, entries ...models.Entry) models.Bill {
	s := models.NewSummary()
	for _, e := range entries {
		s.Add(e.Debtor, e.Creditor, e.Amount)
	}
	return models.Bill{ID: id, Currency: currency, Summary: s}
}

func owes(debtor, creditor, amount string) models.Entry {
	return models.Entry{Debtor: debtor, Creditor: creditor, Amount: d(amount)}
}

func TestCalculateBillBalance(t *testing.T) {
	s := BuildSummary(SplitRequest{
		Mode:         ModeEven,
		Payer:        "alice",
		Participants: []string{"alice", "bob", "carol"},
		Total:        "30",
	})

	assert.True(t, CalculateBillBalance(s, "alice").Equal(d("20")))
	assert.True(t, CalculateBillBalance(s, "bob").Equal(d("-10")))
	assert.True(t, CalculateBillBalance(s, "zed").IsZero())
	assert.True(t, CalculateBillBalance(nil, "alice").IsZero())
}

func TestCalculateBillBalanceAntisymmetric(t *testing.T) {
	s := models.NewSummary()
	s.Add("b", "a", d("7.25"))
	s.Add("c", "a", d("3"))
	s.Add("c", "b", d("1.5"))

	sum := decimal.Zero
	for _, id := range []string{"a", "b", "c"} {
		sum = sum.Add(CalculateBillBalance(s, id))
	}
	assert.True(t, sum.IsZero(), "balances must cancel out, got %s", sum)
}

func TestCalculateLedger(t *testing.T) {
	bills := []models.Bill{
		billWith("b1", "USD", owes("bob", "alice", "10"), owes("carol", "alice", "10")),
		billWith("b2", "USD", owes("alice", "bob", "15")),
	}

	ledger := CalculateLedger(bills, "alice", []string{"alice", "bob", "carol", "dave"})

	assert.Equal(t, "alice", ledger.Subject)
	assert.Equal(t, []string{"bob", "carol", "dave"}, ledger.Counterparties())
	assert.True(t, ledger.Balances["bob"].Equal(d("-5")))
	assert.True(t, ledger.Balances["carol"].Equal(d("10")))
	assert.True(t, ledger.Balances["dave"].IsZero())
	assert.True(t, ledger.TotalReceivable.Equal(d("10")))
	assert.True(t, ledger.TotalPayable.Equal(d("5")))
	assert.True(t, ledger.NetBalance.Equal(d("5")))
}

func TestCalculateLedgerSkipsArchived(t *testing.T) {
	active := billWith("b1", "USD", owes("bob", "alice", "10"))
	archived := billWith("b2", "USD", owes("bob", "alice", "1000"))
	archived.Archived = true

	with := CalculateLedger([]models.Bill{active, archived}, "alice", nil)
	without := CalculateLedger([]models.Bill{active}, "alice", nil)

	assert.True(t, with.Balances["bob"].Equal(without.Balances["bob"]))
	assert.True(t, with.NetBalance.Equal(d("10")))
}

func TestCalculateLedgerIgnoresOtherPairs(t *testing.T) {
	bills := []models.Bill{
		billWith("b1", "USD", owes("bob", "carol", "40")),
	}

	ledger := CalculateLedger(bills, "alice", nil)

	assert.Empty(t, ledger.Balances)
	assert.True(t, ledger.NetBalance.IsZero())
}

func TestCalculateLedgerEmpty(t *testing.T) {
	ledger := CalculateLedger(nil, "alice", []string{"alice"})

	assert.Empty(t, ledger.Balances)
	assert.True(t, ledger.TotalReceivable.IsZero())
	assert.True(t, ledger.TotalPayable.IsZero())
	assert.True(t, ledger.NetBalance.IsZero())
}

func TestCalculateLedgerOrderIndependent(t *testing.T) {
	bills := []models.Bill{
		billWith("b1", "USD", owes("bob", "alice", "10"), owes("carol", "alice", "10")),
		billWith("b2", "USD", owes("alice", "bob", "15")),
		billWith("b3", "USD", owes("alice", "carol", "3.33"), owes("bob", "carol", "3.33")),
		billWith("b4", "USD", owes("carol", "alice", "0.01")),
	}
	want := CalculateLedger(bills, "alice", nil)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.Bill(nil), bills...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := CalculateLedger(shuffled, "alice", nil)
		require.Equal(t, want.Counterparties(), got.Counterparties())
		for _, id := range want.Counterparties() {
			assert.True(t, want.Balances[id].Equal(got.Balances[id]), "counterparty %s", id)
		}
		assert.True(t, want.NetBalance.Equal(got.NetBalance))
	}
}

func TestCurrenciesAndFilter(t *testing.T) {
	archivedEUR := billWith("b3", "EUR", owes("bob", "alice", "1"))
	archivedEUR.Archived = true
	bills := []models.Bill{
		billWith("b1", "USD", owes("bob", "alice", "10")),
		billWith("b2", "JPY", owes("bob", "alice", "1000")),
		billWith("b4", "GBP"),
		archivedEUR,
	}

	assert.Equal(t, []string{"JPY", "USD"}, Currencies(bills))

	usd := FilterByCurrency(bills, "USD")
	require.Len(t, usd, 1)
	assert.Equal(t, "b1", usd[0].ID)
}

func TestResolveCurrency(t *testing.T) {
	usd := billWith("b1", "USD", owes("bob", "alice", "10"))
	eur := billWith("b2", "EUR", owes("bob", "alice", "5"))
	empty := billWith("b3", "GBP")

	tests := []struct {
		name      string
		bills     []models.Bill
		requested string
		want      string
		wantErr   bool
	}{
		{name: "no bills uses default", want: "USD"},
		{name: "only empty bills uses default", bills: []models.Bill{empty}, want: "USD"},
		{name: "single currency", bills: []models.Bill{eur, empty}, want: "EUR"},
		{name: "request wins", bills: []models.Bill{usd, eur}, requested: " eur", want: "EUR"},
		{name: "mixed without request", bills: []models.Bill{usd, eur}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCurrency(tt.bills, tt.requested, "USD")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMixedCurrencies)
				assert.Contains(t, err.Error(), "EUR, USD")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package calculator

import (
	"testing"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGroupBalances(t *testing.T) {
	bills := []models.Bill{
		billWith("b1", "USD", owes("bob", "alice", "10"), owes("carol", "alice", "10")),
		billWith("b2", "USD", owes("alice", "bob", "15"), owes("carol", "bob", "15")),
	}

	members, edges := CalculateGroupBalances(bills)

	require.Len(t, members, 3)
	assert.Equal(t, "alice", members[0].MemberID)
	assert.True(t, members[0].NetBalance.Equal(d("5")))
	assert.True(t, members[1].NetBalance.Equal(d("20")))
	assert.True(t, members[2].NetBalance.Equal(d("-25")))

	require.Len(t, edges, 2)
	assert.Equal(t, DebtEdge{From: "carol", To: "bob", Amount: edges[0].Amount}, edges[0])
	assert.True(t, edges[0].Amount.Equal(d("20")))
	assert.Equal(t, "alice", edges[1].To)
	assert.True(t, edges[1].Amount.Equal(d("5")))
}

func TestSimplifyDebtsSettlesEveryone(t *testing.T) {
	bills := []models.Bill{
		evenBill(SplitRequest{Mode: ModeEven, Payer: "a", Participants: []string{"a", "b", "c"}, Total: "100"}),
		evenBill(SplitRequest{Mode: ModeEven, Payer: "b", Participants: []string{"a", "b", "c", "d"}, Total: "42"}),
	}

	members, edges := CalculateGroupBalances(bills)

	net := make(map[string]float64)
	for _, m := range members {
		net[m.MemberID], _ = m.NetBalance.Float64()
	}
	for _, e := range edges {
		amount, _ := e.Amount.Float64()
		net[e.From] += amount
		net[e.To] -= amount
	}
	for id, remaining := range net {
		assert.InDeltaf(t, 0, remaining, 0.01, "member %s left unsettled", id)
	}
}

func TestSimplifyDebtsNothingOwed(t *testing.T) {
	_, edges := CalculateGroupBalances(nil)
	assert.Empty(t, edges)
}

// evenBill wraps a built summary in an active USD bill.
func evenBill(req SplitRequest) models.Bill {
	return models.Bill{Currency: "USD", Summary: BuildSummary(req)}
}

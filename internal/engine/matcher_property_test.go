package engine

import (
	"testing"

	"pgregory.net/rapid"

	"venue/internal/domain"
)

var propertySigners = []string{"ALICE", "BOB", "CHARLIE", "DAVE"}

// genOrder draws a random order from a small value space to encourage
// price collisions and crossing books.
func genOrder() *rapid.Generator[domain.Order] {
	return rapid.Custom(func(t *rapid.T) domain.Order {
		side := domain.SideBuy
		if rapid.Bool().Draw(t, "sell") {
			side = domain.SideSell
		}
		return domain.Order{
			Price:  rapid.Uint64Range(1, 20).Draw(t, "price"),
			Amount: rapid.Uint64Range(1, 10).Draw(t, "amount"),
			Side:   side,
			Signer: rapid.SampledFrom(propertySigners).Draw(t, "signer"),
		}
	})
}

func TestProperty_OrdinalsStrictlyIncreaseFromOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "numOrders")
		e := New()

		for i := 0; i < n; i++ {
			receipt, err := e.Process(genOrder().Draw(t, "order"))
			if err != nil {
				t.Fatalf("process failed: %v", err)
			}
			if receipt.Ordinal != uint64(i+1) {
				t.Fatalf("order %d got ordinal %d, want %d", i, receipt.Ordinal, i+1)
			}
		}
	})
}

func TestProperty_EqualPriceMatchesEarliestOrdinalFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		price := rapid.Uint64Range(1, 100).Draw(t, "price")
		firstAmount := rapid.Uint64Range(1, 20).Draw(t, "firstAmount")
		secondAmount := rapid.Uint64Range(1, 20).Draw(t, "secondAmount")
		buyAmount := rapid.Uint64Range(1, firstAmount+secondAmount).Draw(t, "buyAmount")

		e := New()
		mustProcessRapid(t, e, domain.Order{Price: price, Amount: firstAmount, Side: domain.SideSell, Signer: "ALICE"})
		mustProcessRapid(t, e, domain.Order{Price: price, Amount: secondAmount, Side: domain.SideSell, Signer: "CHARLIE"})

		receipt := mustProcessRapid(t, e, domain.Order{Price: price, Amount: buyAmount, Side: domain.SideBuy, Signer: "BOB"})

		if len(receipt.Matches) == 0 {
			t.Fatalf("marketable buy produced no matches")
		}
		// The earlier sell is always consumed first.
		if receipt.Matches[0].Ordinal != 1 {
			t.Fatalf("first fragment ordinal = %d, want 1", receipt.Matches[0].Ordinal)
		}
		// The later sell is touched only once the earlier one is exhausted.
		if len(receipt.Matches) > 1 {
			if receipt.Matches[0].Remaining != 0 {
				t.Fatalf("second order touched while first still had remaining %d", receipt.Matches[0].Remaining)
			}
			if receipt.Matches[1].Ordinal != 2 {
				t.Fatalf("second fragment ordinal = %d, want 2", receipt.Matches[1].Ordinal)
			}
		}
	})
}

func TestProperty_SelfTradeNeverMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "numOrders")
		e := New()

		for i := 0; i < n; i++ {
			order := genOrder().Draw(t, "order")
			receipt, err := e.Process(order)
			if err != nil {
				t.Fatalf("process failed: %v", err)
			}
			for _, m := range receipt.Matches {
				if m.Signer == order.Signer {
					t.Fatalf("order by %s matched its own resting order (ordinal %d)", order.Signer, m.Ordinal)
				}
			}
		}
	})
}

func TestProperty_BookInvariantsHoldAfterEveryOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "numOrders")
		e := New()

		for i := 0; i < n; i++ {
			if _, err := e.Process(genOrder().Draw(t, "order")); err != nil {
				t.Fatalf("process failed: %v", err)
			}
			checkSideInvariants(t, e.bids, "bid")
			checkSideInvariants(t, e.asks, "ask")
		}
	})
}

// checkSideInvariants asserts that no level is empty, every resting
// order has 0 < remaining <= amount, and each order rests at its exact
// price level.
func checkSideInvariants(t *rapid.T, side *bookSide, name string) {
	side.walk(func(level *priceLevel) bool {
		if level.empty() {
			t.Fatalf("%s side: empty level at price %d survived pruning", name, level.price)
		}
		for _, po := range level.orders {
			if po.Remaining == 0 {
				t.Fatalf("%s side: fully consumed order (ordinal %d) still resting", name, po.Ordinal)
			}
			if po.Remaining > po.Amount {
				t.Fatalf("%s side: order %d has remaining %d > amount %d", name, po.Ordinal, po.Remaining, po.Amount)
			}
			if po.Price != level.price {
				t.Fatalf("%s side: order %d priced %d resting at level %d", name, po.Ordinal, po.Price, level.price)
			}
		}
		return true
	})
}

func TestProperty_MatchedNeverExceedsEitherSide(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "numOrders")
		e := New()

		for i := 0; i < n; i++ {
			order := genOrder().Draw(t, "order")
			receipt, err := e.Process(order)
			if err != nil {
				t.Fatalf("process failed: %v", err)
			}
			for _, m := range receipt.Matches {
				// Every fragment records a strictly reduced remaining:
				// at least one unit was consumed, and never more than
				// the order ever held.
				if m.Remaining >= m.Amount {
					t.Fatalf("fragment ordinal %d: remaining %d not reduced below amount %d", m.Ordinal, m.Remaining, m.Amount)
				}
			}
		}
	})
}

func mustProcessRapid(t *rapid.T, e *Engine, o domain.Order) domain.Receipt {
	receipt, err := e.Process(o)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	return receipt
}

package engine

import (
	"sync"

	"venue/internal/domain"
)

// Engine is the matching core for a single instrument: two book sides,
// a monotonic ordinal counter, and an append-only history of receipts.
//
// One engine instance is one unit of mutual exclusion. Process holds the
// write lock for the whole match pass, so readers never observe a
// partially completed match and writers are fully serialized.
type Engine struct {
	mu      sync.RWMutex
	ordinal uint64
	bids    *bookSide
	asks    *bookSide
	history []domain.Receipt
}

// New creates an Engine with an ordinal of 0 and empty books.
func New() *Engine {
	return &Engine{
		bids: newBookSide(),
		asks: newBookSide(),
	}
}

// Process runs one order through the matching algorithm: assign the
// next ordinal, consume the opposite side in price-time priority, rest
// any unmatched remainder on the order's own side, prune empty levels
// on both sides, and append the receipt to the history.
//
// The ordinal is consumed before any other work. A failure past the
// increment leaves an observable gap in the emitted sequence rather
// than reusing the number.
func (e *Engine) Process(order domain.Order) (domain.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ordinal++
	incoming := order.IntoPartial(e.ordinal)

	opposite, own := e.asks, e.bids
	if incoming.Side == domain.SideSell {
		opposite, own = e.bids, e.asks
	}

	receipt := matchOrder(&incoming, opposite)

	if incoming.Remaining > 0 {
		own.insert(incoming)
	}

	// Pruning applies to both sides unconditionally: the scan empties
	// levels on the opposite side, and the own side may carry levels
	// emptied by earlier passes.
	e.bids.prune()
	e.asks.prune()

	e.history = append(e.history, receipt)
	return receipt, nil
}

// matchOrder walks the eligible levels of the opposite side in price
// priority, consuming resting orders in ascending ordinal within each
// level, and mutates the incoming order's remaining as it goes.
func matchOrder(incoming *domain.PartialOrder, opposite *bookSide) domain.Receipt {
	receipt := domain.Receipt{
		Ordinal: incoming.Ordinal,
		Matches: []domain.PartialOrder{},
	}

	scan := func(level *priceLevel) bool {
		var setAside []domain.PartialOrder

		for incoming.Remaining > 0 && !level.empty() {
			resting := level.pop()

			if resting.Signer == incoming.Signer {
				// Self-trade exclusion: never matched, never mutated.
				// Set aside and restore before leaving the level.
				setAside = append(setAside, resting)
				continue
			}

			preMatch := resting.Remaining
			matched := min(incoming.Remaining, preMatch)
			resting.Remaining = preMatch - matched
			receipt.Matches = append(receipt.Matches, resting)

			// The incoming order gives up the resting order's full
			// pre-match remaining, saturating at zero. When preMatch
			// exceeds the incoming remaining, the matched quantity is
			// exactly that remaining, so saturation and exact
			// arithmetic agree.
			if preMatch >= incoming.Remaining {
				incoming.Remaining = 0
			} else {
				incoming.Remaining -= preMatch
			}

			// A partially consumed resting order stays on the book
			// with its reduced remaining; it leaves the book exactly
			// when remaining reaches zero.
			if resting.Remaining > 0 {
				level.push(resting)
			}
		}

		for _, self := range setAside {
			level.push(self)
		}
		return incoming.Remaining > 0
	}

	if incoming.Side == domain.SideBuy {
		// Buys take the cheapest eligible asks first.
		opposite.ascendEligible(incoming.Price, scan)
	} else {
		// Sells take the richest eligible bids first.
		opposite.descendEligible(incoming.Price, scan)
	}

	return receipt
}

// Snapshot returns every resting order: all bids followed by all asks,
// levels in price-ascending order as stored. Consumers needing strict
// depth-of-book ordering must sort the result themselves.
func (e *Engine) Snapshot() []domain.PartialOrder {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := e.bids.flatten()
	return append(out, e.asks.flatten()...)
}

// ReservedAmount sums amount × price over the signer's resting bid-side
// orders with overflow-checked arithmetic. Any overflow collapses the
// result to 0, so callers must read 0 as "overflow or truly zero" —
// never as a verified empty reservation.
func (e *Engine) ReservedAmount(signer string) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var total uint64
	overflowed := false
	e.bids.walk(func(level *priceLevel) bool {
		for _, po := range level.orders {
			if po.Signer != signer {
				continue
			}
			cost, err := domain.CheckedMul(po.Amount, po.Price)
			if err != nil {
				overflowed = true
				return false
			}
			total, err = domain.CheckedAdd(total, cost)
			if err != nil {
				overflowed = true
				return false
			}
		}
		return true
	})
	if overflowed {
		return 0
	}
	return total
}

// History returns a copy of the audit log in append order. Entries are
// immutable once appended.
func (e *Engine) History() []domain.Receipt {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Receipt, len(e.history))
	copy(out, e.history)
	return out
}

// Ordinal returns the last assigned ordinal, 0 before any order.
func (e *Engine) Ordinal() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ordinal
}

// BidLevels returns the number of non-empty bid price levels.
func (e *Engine) BidLevels() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bids.levelCount()
}

// AskLevels returns the number of non-empty ask price levels.
func (e *Engine) AskLevels() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.asks.levelCount()
}

package engine

import (
	"container/heap"

	"github.com/google/btree"

	"venue/internal/domain"
)

// ordinalQueue is a min-heap of resting orders keyed by ascending
// ordinal — the time axis of price-time priority. Insertion order is
// irrelevant; only the ordinal ordering is contractual.
type ordinalQueue []domain.PartialOrder

func (q ordinalQueue) Len() int           { return len(q) }
func (q ordinalQueue) Less(i, j int) bool { return q[i].Ordinal < q[j].Ordinal }
func (q ordinalQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *ordinalQueue) Push(x any) {
	*q = append(*q, x.(domain.PartialOrder))
}

func (q *ordinalQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// priceLevel holds the time-priority queue of resting orders sharing one
// exact price.
type priceLevel struct {
	price  uint64
	orders ordinalQueue
}

func (l *priceLevel) push(po domain.PartialOrder) {
	heap.Push(&l.orders, po)
}

// pop removes and returns the earliest-ordinal resting order.
func (l *priceLevel) pop() domain.PartialOrder {
	return heap.Pop(&l.orders).(domain.PartialOrder)
}

func (l *priceLevel) empty() bool {
	return len(l.orders) == 0
}

// inOrder returns the level's orders in ascending ordinal without
// disturbing the live queue.
func (l *priceLevel) inOrder() []domain.PartialOrder {
	clone := make(ordinalQueue, len(l.orders))
	copy(clone, l.orders)
	out := make([]domain.PartialOrder, 0, len(clone))
	for clone.Len() > 0 {
		out = append(out, heap.Pop(&clone).(domain.PartialOrder))
	}
	return out
}

// bookSide is one side of the order book: an ordered mapping from price
// to the level resting there. Levels are keyed price-ascending; the
// directional scan helpers pick the iteration direction matching the
// incoming side.
type bookSide struct {
	levels *btree.BTreeG[*priceLevel]
}

func newBookSide() *bookSide {
	const degree = 32
	return &bookSide{
		levels: btree.NewG(degree, func(a, b *priceLevel) bool {
			return a.price < b.price
		}),
	}
}

// insert appends a resting order into the queue for its exact price,
// creating the level on demand.
func (s *bookSide) insert(po domain.PartialOrder) {
	level, ok := s.levels.Get(&priceLevel{price: po.Price})
	if !ok {
		level = &priceLevel{price: po.Price}
		s.levels.ReplaceOrInsert(level)
	}
	level.push(po)
}

// ascendEligible visits levels priced <= limit from the lowest price
// upward — the scan order for an incoming buy against the ask side.
// The callback returns false to stop early.
func (s *bookSide) ascendEligible(limit uint64, fn func(*priceLevel) bool) {
	s.levels.Ascend(func(level *priceLevel) bool {
		if level.price > limit {
			return false
		}
		return fn(level)
	})
}

// descendEligible visits levels priced >= limit from the highest price
// downward — the scan order for an incoming sell against the bid side.
func (s *bookSide) descendEligible(limit uint64, fn func(*priceLevel) bool) {
	s.levels.Descend(func(level *priceLevel) bool {
		if level.price < limit {
			return false
		}
		return fn(level)
	})
}

// walk visits every level in price-ascending order.
func (s *bookSide) walk(fn func(*priceLevel) bool) {
	s.levels.Ascend(fn)
}

// prune removes every price level whose queue is empty. Matching drains
// queues in place, so this runs after each processed order.
func (s *bookSide) prune() {
	var empty []*priceLevel
	s.levels.Ascend(func(level *priceLevel) bool {
		if level.empty() {
			empty = append(empty, level)
		}
		return true
	})
	for _, level := range empty {
		s.levels.Delete(level)
	}
}

// flatten returns every resting order, levels in price-ascending order,
// orders within a level in ascending ordinal.
func (s *bookSide) flatten() []domain.PartialOrder {
	var out []domain.PartialOrder
	s.levels.Ascend(func(level *priceLevel) bool {
		out = append(out, level.inOrder()...)
		return true
	})
	return out
}

// levelCount returns the number of non-empty price levels.
func (s *bookSide) levelCount() int {
	return s.levels.Len()
}

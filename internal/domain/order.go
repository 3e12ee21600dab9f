package domain

import (
	"fmt"
	"strings"
)

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide parses a side string case-insensitively.
func ParseSide(s string) (Side, error) {
	switch {
	case strings.EqualFold(s, string(SideBuy)):
		return SideBuy, nil
	case strings.EqualFold(s, string(SideSell)):
		return SideSell, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// Order is an incoming, immutable request to trade. Prices and amounts
// are unsigned unit values; the core performs no positivity or tick
// validation, so zero values are legal inputs.
type Order struct {
	Price  uint64
	Amount uint64
	Side   Side
	Signer string
}

// RequiredFunds returns amount × price for buy orders, overflow-checked.
// Sell orders require no funds; the second return is false for them.
func (o Order) RequiredFunds() (uint64, bool, error) {
	if o.Side == SideSell {
		return 0, false, nil
	}
	required, err := CheckedMul(o.Amount, o.Price)
	if err != nil {
		return 0, false, err
	}
	return required, true, nil
}

// IntoPartial stamps the order with its ordinal, producing the book
// representation with the full amount still unmatched.
func (o Order) IntoPartial(ordinal uint64) PartialOrder {
	return PartialOrder{
		Price:     o.Price,
		Amount:    o.Amount,
		Remaining: o.Amount,
		Side:      o.Side,
		Signer:    o.Signer,
		Ordinal:   ordinal,
	}
}

// PartialOrder is an order annotated with its submission ordinal and the
// quantity still unmatched. It is both the unit of book storage and the
// match-fragment record inside a Receipt.
type PartialOrder struct {
	Price     uint64
	Amount    uint64
	Remaining uint64
	Side      Side
	Signer    string
	Ordinal   uint64
}

// Receipt is the result of processing one order: the ordinal assigned to
// it and the match fragments it consumed, in the order they were matched.
type Receipt struct {
	Ordinal uint64
	Matches []PartialOrder
}

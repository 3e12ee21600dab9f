package platform

import (
	"fmt"
	"sync"

	"venue/internal/domain"
	"venue/internal/engine"
	"venue/internal/ledger"
)

// Platform orchestrates order flow for the venue: it validates solvency
// against the ledger, runs the matching engine, settles each match
// fragment, and journals every resulting transaction.
type Platform struct {
	engine   *engine.Engine
	accounts *ledger.Accounts

	mu  sync.Mutex
	txs []domain.Tx
}

// New creates a Platform with an empty book and an empty ledger.
func New() *Platform {
	return &Platform{
		engine:   engine.New(),
		accounts: ledger.NewAccounts(),
	}
}

// PlaceOrder checks solvency for buy orders, processes the order through
// the matching engine, and applies each match fragment to the ledger.
//
// A failed pre-check aborts before the engine runs: the book is left
// untouched and no ordinal is consumed. Once the engine has run, the
// receipt is committed to history even if settlement fails part-way.
func (p *Platform) PlaceOrder(order domain.Order) (domain.Receipt, error) {
	required, needsFunds, err := order.RequiredFunds()
	if err != nil {
		return domain.Receipt{}, err
	}
	if needsFunds {
		balance, err := p.accounts.BalanceOf(order.Signer)
		if err != nil {
			return domain.Receipt{}, err
		}
		if balance < required {
			return domain.Receipt{}, fmt.Errorf("%w: %s requires %d",
				domain.ErrAccountUnderfunded, order.Signer, required)
		}
	}

	receipt, err := p.engine.Process(order)
	if err != nil {
		return domain.Receipt{}, err
	}

	if err := p.settle(order.Signer, receipt.Matches); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// settle applies one ledger transfer per match fragment, valued at the
// fragment's price × amount. Buy-side fragments pay the incoming signer;
// sell-side fragments are paid by the incoming signer.
func (p *Platform) settle(signer string, matches []domain.PartialOrder) error {
	for _, m := range matches {
		cost, err := domain.CheckedMul(m.Price, m.Amount)
		if err != nil {
			return fmt.Errorf("settling ordinal %d: %w", m.Ordinal, err)
		}

		var debit, credit domain.Tx
		if m.Side == domain.SideBuy {
			debit, credit, err = p.accounts.Send(m.Signer, signer, cost)
		} else {
			debit, credit, err = p.accounts.Send(signer, m.Signer, cost)
		}
		if err != nil {
			return fmt.Errorf("settling ordinal %d: %w", m.Ordinal, err)
		}
		p.journal(debit, credit)
	}
	return nil
}

// Deposit credits a signer's account and journals the transaction.
func (p *Platform) Deposit(signer string, amount uint64) (domain.Tx, error) {
	tx, err := p.accounts.Deposit(signer, amount)
	if err != nil {
		return domain.Tx{}, err
	}
	p.journal(tx)
	return tx, nil
}

// Withdraw debits a signer's account and journals the transaction.
func (p *Platform) Withdraw(signer string, amount uint64) (domain.Tx, error) {
	tx, err := p.accounts.Withdraw(signer, amount)
	if err != nil {
		return domain.Tx{}, err
	}
	p.journal(tx)
	return tx, nil
}

// Send transfers funds between two signers and journals both legs.
func (p *Platform) Send(from, to string, amount uint64) (domain.Tx, domain.Tx, error) {
	debit, credit, err := p.accounts.Send(from, to, amount)
	if err != nil {
		return domain.Tx{}, domain.Tx{}, err
	}
	p.journal(debit, credit)
	return debit, credit, nil
}

// BalanceOf returns a signer's ledger balance.
func (p *Platform) BalanceOf(signer string) (uint64, error) {
	return p.accounts.BalanceOf(signer)
}

// Orderbook returns every resting order, bids then asks.
func (p *Platform) Orderbook() []domain.PartialOrder {
	return p.engine.Snapshot()
}

// History returns the engine's append-only receipt log.
func (p *Platform) History() []domain.Receipt {
	return p.engine.History()
}

// ReservedAmount returns the signer's bid-side reservation per the
// engine's overflow-collapsing query.
func (p *Platform) ReservedAmount(signer string) uint64 {
	return p.engine.ReservedAmount(signer)
}

// Transactions returns a copy of the transaction journal in append order.
func (p *Platform) Transactions() []domain.Tx {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.Tx, len(p.txs))
	copy(out, p.txs)
	return out
}

func (p *Platform) journal(txs ...domain.Tx) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = append(p.txs, txs...)
}

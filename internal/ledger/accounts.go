package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"venue/internal/domain"
)

// Accounts is a thread-safe in-memory ledger of signer balances. Every
// balance mutation yields a Tx record for the caller to journal.
type Accounts struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

// NewAccounts creates an empty ledger.
func NewAccounts() *Accounts {
	return &Accounts{
		balances: make(map[string]uint64),
	}
}

// BalanceOf returns the signer's balance. It returns
// domain.ErrAccountNotFound for a signer that has never deposited.
func (a *Accounts) BalanceOf(signer string) (uint64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	balance, ok := a.balances[signer]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, signer)
	}
	return balance, nil
}

// Deposit credits the signer, creating the account on first use. The
// addition is overflow-checked.
func (a *Accounts) Deposit(signer string, amount uint64) (domain.Tx, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deposit(signer, amount)
}

// Withdraw debits the signer. It returns domain.ErrAccountNotFound for
// an unknown signer and domain.ErrAccountUnderfunded when the balance
// cannot cover the amount.
func (a *Accounts) Withdraw(signer string, amount uint64) (domain.Tx, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdraw(signer, amount)
}

// Send moves amount from one signer to another under a single lock:
// debit first, then credit. If the credit overflows, the debit is
// rolled back and the ledger is left unchanged.
func (a *Accounts) Send(from, to string, amount uint64) (domain.Tx, domain.Tx, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	debit, err := a.withdraw(from, amount)
	if err != nil {
		return domain.Tx{}, domain.Tx{}, err
	}
	credit, err := a.deposit(to, amount)
	if err != nil {
		a.balances[from] += amount
		return domain.Tx{}, domain.Tx{}, err
	}
	return debit, credit, nil
}

func (a *Accounts) deposit(signer string, amount uint64) (domain.Tx, error) {
	sum, err := domain.CheckedAdd(a.balances[signer], amount)
	if err != nil {
		return domain.Tx{}, fmt.Errorf("deposit for %s: %w", signer, err)
	}
	a.balances[signer] = sum
	return newTx(domain.TxDeposit, signer, amount), nil
}

func (a *Accounts) withdraw(signer string, amount uint64) (domain.Tx, error) {
	balance, ok := a.balances[signer]
	if !ok {
		return domain.Tx{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, signer)
	}
	if balance < amount {
		return domain.Tx{}, fmt.Errorf("%w: %s requires %d", domain.ErrAccountUnderfunded, signer, amount)
	}
	a.balances[signer] = balance - amount
	return newTx(domain.TxWithdraw, signer, amount), nil
}

func newTx(kind domain.TxKind, signer string, amount uint64) domain.Tx {
	return domain.Tx{
		TxID:      uuid.New().String(),
		Kind:      kind,
		Signer:    signer,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
}

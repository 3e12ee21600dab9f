package domain

import "time"

// TxKind distinguishes the two directions a balance can move.
type TxKind string

const (
	TxDeposit  TxKind = "deposit"
	TxWithdraw TxKind = "withdraw"
)

// Tx is the record of a single balance mutation on the ledger. Transfers
// and settlements produce one withdraw Tx and one deposit Tx each.
type Tx struct {
	TxID      string
	Kind      TxKind
	Signer    string
	Amount    uint64
	CreatedAt time.Time
}

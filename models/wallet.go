package models

import "time"

// Transaction types in the wallet ledger.
const (
	TxnCredit = "credit"
	TxnDebit  = "debit"
)

// Account holds the authoritative wallet balance for a user. Version bumps
// with every balance mutation.
type Account struct {
	AccountID string    `json:"accountId" bson:"_id"`
	UserID    string    `json:"userId" bson:"userid"`
	Balance   float64   `json:"balance" bson:"balance"`
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Transaction is one wallet ledger entry. BalanceAfter is the account balance
// as committed by the mutation that wrote this entry, so history reads never
// have to re-derive it.
type Transaction struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"userId" bson:"userid"`
	Type           string    `json:"type" bson:"type"`
	Amount         float64   `json:"amount" bson:"amount"`
	Description    string    `json:"description" bson:"description"`
	Reference      string    `json:"reference,omitempty" bson:"reference,omitempty"`
	BalanceAfter   float64   `json:"balanceAfter" bson:"balanceafter"`
	IdempotencyKey string    `json:"-" bson:"idempotency_key,omitempty"`
	OccurredAt     time.Time `json:"occurredAt" bson:"occurred_at"`
}

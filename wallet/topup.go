package wallet

import (
	"context"

	"philately/models"
)

// ledger is the slice of WalletService the top-up path needs.
type ledger interface {
	findReplay(ctx context.Context, userID, idempotencyKey string) (*models.Transaction, error)
	Credit(ctx context.Context, userID string, amount float64, description, idempotencyKey string) (float64, *models.Transaction, error)
}

// topUp applies one wallet top-up. A previously seen Idempotency-Key replays
// the recorded transaction instead of crediting again; the returned balance
// is always the one the ledger committed, never computed by the caller.
func topUp(ctx context.Context, l ledger, userID string, amount float64, idempotencyKey string) (float64, *models.Transaction, error) {
	if !validAmount(amount) {
		return 0, nil, ErrInvalidAmount
	}

	if idempotencyKey != "" {
		if txn, err := l.findReplay(ctx, userID, idempotencyKey); err == nil && txn != nil {
			return txn.BalanceAfter, txn, nil
		}
	}

	return l.Credit(ctx, userID, amount, "Wallet top-up", idempotencyKey)
}

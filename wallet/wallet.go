package wallet

import (
	"context"
	"errors"
	"math"
	"time"

	"philately/db"
	"philately/models"
	"philately/rdx"
	"philately/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// lockTTL bounds how long a per-user wallet lock is held.
const lockTTL = 5 * time.Second

// WalletService owns every balance mutation. Balances only ever change
// through Credit and Debit, and both return the committed post-transaction
// balance read back from the store.
type WalletService struct{}

func NewWalletService() *WalletService {
	return &WalletService{}
}

// Lock acquires the per-user wallet lock in Redis. Callers must Unlock.
func (s *WalletService) Lock(userID string) (bool, error) {
	return rdx.RdxSetNX("wallet_lock:"+userID, "1", lockTTL)
}

func (s *WalletService) Unlock(userID string) {
	_ = rdx.RdxDel("wallet_lock:" + userID)
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// getOrCreateAccount returns the account ID, lazily creating a zero-balance
// account on first touch.
func getOrCreateAccount(ctx context.Context, userID string) (string, error) {
	var acc models.Account
	err := db.AccountsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&acc)
	if err == nil {
		return acc.AccountID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	acc = models.Account{
		AccountID: utils.GetUUID(),
		UserID:    userID,
		Balance:   0,
		Version:   0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := db.AccountsCollection.InsertOne(ctx, acc); err != nil {
		return "", err
	}
	return acc.AccountID, nil
}

// findReplay returns the credit previously recorded under an Idempotency-Key,
// or mongo.ErrNoDocuments when the key is new.
func (s *WalletService) findReplay(ctx context.Context, userID, idempotencyKey string) (*models.Transaction, error) {
	var existing models.Transaction
	err := db.TransactionCollection.FindOne(ctx, bson.M{
		"idempotency_key": idempotencyKey,
		"type":            models.TxnCredit,
		"userid":          userID,
	}).Decode(&existing)
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// CurrentBalance reads the stored balance, creating the account if needed.
func (s *WalletService) CurrentBalance(ctx context.Context, userID string) (float64, error) {
	if _, err := getOrCreateAccount(ctx, userID); err != nil {
		return 0, err
	}
	var acc models.Account
	if err := db.AccountsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&acc); err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Credit adds amount to the user's balance and writes the ledger entry. The
// returned balance is the value committed by the update, never old+amount
// computed by the caller.
func (s *WalletService) Credit(ctx context.Context, userID string, amount float64, description, idempotencyKey string) (float64, *models.Transaction, error) {
	if !validAmount(amount) {
		return 0, nil, ErrInvalidAmount
	}
	if _, err := getOrCreateAccount(ctx, userID); err != nil {
		return 0, nil, err
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var acc models.Account
	err := db.AccountsCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$inc": bson.M{"balance": amount, "version": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		after,
	).Decode(&acc)
	if err != nil {
		return 0, nil, err
	}

	txn := models.Transaction{
		ID:             utils.GetUUID(),
		UserID:         userID,
		Type:           models.TxnCredit,
		Amount:         amount,
		Description:    description,
		BalanceAfter:   acc.Balance,
		IdempotencyKey: idempotencyKey,
		OccurredAt:     time.Now(),
	}
	if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
		return 0, nil, err
	}
	return acc.Balance, &txn, nil
}

// Debit withdraws amount atomically: the filter refuses the update when the
// stored balance is short, so the balance can never go negative.
func (s *WalletService) Debit(ctx context.Context, userID string, amount float64, description, reference string) (float64, *models.Transaction, error) {
	if !validAmount(amount) {
		return 0, nil, ErrInvalidAmount
	}
	if _, err := getOrCreateAccount(ctx, userID); err != nil {
		return 0, nil, err
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var acc models.Account
	err := db.AccountsCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID, "balance": bson.M{"$gte": amount}},
		bson.M{
			"$inc": bson.M{"balance": -amount, "version": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		after,
	).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil, ErrInsufficientBalance
		}
		return 0, nil, err
	}

	txn := models.Transaction{
		ID:           utils.GetUUID(),
		UserID:       userID,
		Type:         models.TxnDebit,
		Amount:       amount,
		Description:  description,
		Reference:    reference,
		BalanceAfter: acc.Balance,
		OccurredAt:   time.Now(),
	}
	if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
		return 0, nil, err
	}
	return acc.Balance, &txn, nil
}

// Refund credits back a previously debited order amount, e.g. on admin
// cancellation of a paid order.
func (s *WalletService) Refund(ctx context.Context, userID string, amount float64, reference string) (float64, error) {
	balance, _, err := s.Credit(ctx, userID, amount, "Refund for "+reference, "")
	return balance, err
}

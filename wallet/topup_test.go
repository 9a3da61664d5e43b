package wallet

import (
	"context"
	"fmt"
	"testing"

	"philately/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// mockLedger keeps a running balance and records credits by Idempotency-Key.
type mockLedger struct {
	balance  float64
	recorded map[string]*models.Transaction
	credits  int
}

func newMockLedger() *mockLedger {
	return &mockLedger{recorded: make(map[string]*models.Transaction)}
}

func (m *mockLedger) findReplay(_ context.Context, _, idempotencyKey string) (*models.Transaction, error) {
	if txn, ok := m.recorded[idempotencyKey]; ok {
		return txn, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockLedger) Credit(_ context.Context, userID string, amount float64, description, idempotencyKey string) (float64, *models.Transaction, error) {
	m.credits++
	m.balance += amount
	txn := &models.Transaction{
		ID:             fmt.Sprintf("txn%d", m.credits),
		UserID:         userID,
		Type:           models.TxnCredit,
		Amount:         amount,
		Description:    description,
		BalanceAfter:   m.balance,
		IdempotencyKey: idempotencyKey,
	}
	if idempotencyKey != "" {
		m.recorded[idempotencyKey] = txn
	}
	return m.balance, txn, nil
}

func TestTopUpCreditsOnce(t *testing.T) {
	l := newMockLedger()

	balance, txn, err := topUp(context.Background(), l, "u1", 100, "key-1")
	require.NoError(t, err)

	assert.Equal(t, 1, l.credits)
	assert.Equal(t, 100.0, balance)
	assert.Equal(t, models.TxnCredit, txn.Type)
	assert.Equal(t, 100.0, txn.BalanceAfter)
}

func TestTopUpReplaysIdempotencyKey(t *testing.T) {
	l := newMockLedger()

	_, first, err := topUp(context.Background(), l, "u1", 100, "key-1")
	require.NoError(t, err)

	balance, replayed, err := topUp(context.Background(), l, "u1", 100, "key-1")
	require.NoError(t, err)

	assert.Equal(t, 1, l.credits, "repeated key must not credit again")
	assert.Equal(t, 100.0, l.balance)
	assert.Equal(t, first.ID, replayed.ID)
	assert.Equal(t, first.BalanceAfter, balance)
}

func TestTopUpBalanceAfterTracksLedger(t *testing.T) {
	l := newMockLedger()

	balance1, txn1, err := topUp(context.Background(), l, "u1", 100, "key-1")
	require.NoError(t, err)
	balance2, txn2, err := topUp(context.Background(), l, "u1", 250.50, "key-2")
	require.NoError(t, err)

	assert.Equal(t, txn1.BalanceAfter, balance1)
	assert.Equal(t, txn2.BalanceAfter, balance2)
	assert.Equal(t, 350.50, txn2.BalanceAfter)
	assert.Equal(t, l.balance, balance2)
}

func TestTopUpRejectsInvalidAmount(t *testing.T) {
	l := newMockLedger()

	_, _, err := topUp(context.Background(), l, "u1", -5, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 0, l.credits)
}

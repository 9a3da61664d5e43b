package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"philately/db"
	"philately/models"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBalance returns the stored wallet balance for the logged-in user.
func (s *WalletService) GetBalance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := s.CurrentBalance(ctx, userID)
	if err != nil {
		log.Printf("GetBalance: failed for user %s, err=%v", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"balance": balance})
}

// AddMoney credits the wallet and replies with the authoritative
// post-transaction balance. An Idempotency-Key header replays the original
// result instead of crediting twice.
func (s *WalletService) AddMoney(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !validAmount(body.Amount) {
		http.Error(w, ErrInvalidAmount.Error(), http.StatusBadRequest)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	acquired, err := s.Lock(userID)
	if err != nil || !acquired {
		http.Error(w, "please retry", http.StatusTooManyRequests)
		return
	}
	defer s.Unlock(userID)

	balance, txn, err := topUp(ctx, s, userID, body.Amount, idempotencyKey)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("AddMoney: credit failed for user %s, err=%v", userID, err)
		http.Error(w, "top-up failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"balance":     balance,
		"transaction": txn,
	})
}

// ListTransactions returns the user's ledger, newest first. The client
// replaces its copy wholesale; there is no pagination merge.
func (s *WalletService) ListTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	findOptions := options.Find().SetSort(bson.M{"occurred_at": -1}).SetLimit(200)
	cur, err := db.TransactionCollection.Find(ctx, bson.M{"userid": userID}, findOptions)
	if err != nil {
		log.Printf("ListTransactions: DB error for user %s, err=%v", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var txns []models.Transaction
	if err = cur.All(ctx, &txns); err != nil {
		log.Printf("ListTransactions: decode error for user %s, err=%v", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(txns) == 0 {
		txns = []models.Transaction{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
	})
}

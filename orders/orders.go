package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"philately/db"
	"philately/globals"
	"philately/models"
	"philately/utils"
	"philately/wallet"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderService serves order reads and admin status transitions.
type OrderService struct {
	wallet *wallet.WalletService
	feed   *Feed
}

func NewOrderService(w *wallet.WalletService, feed *Feed) *OrderService {
	return &OrderService{wallet: w, feed: feed}
}

func (s *OrderService) Feed() *Feed { return s.feed }

// GetMyOrders returns the user's orders, newest first.
func (s *OrderService) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	findOptions := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		log.Println("GetMyOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders": list,
		"total":  len(list),
	})
}

func isAdmin(r *http.Request) bool {
	roles, ok := r.Context().Value(globals.RoleKey).([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if role == "admin" {
			return true
		}
	}
	return false
}

// GetOrder returns one order; owners see their own, admins see any.
func (s *OrderService) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if order.UserID != userID && !isAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"order": order})
}

// ListAllOrders returns every order for the admin dashboard, newest first,
// with optional ?status= filter.
func (s *OrderService) ListAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			http.Error(w, "Unknown status", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(200)
	cur, err := db.OrderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("ListAllOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		log.Println("ListAllOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders": list,
		"total":  len(list),
	})
}

// UpdateOrderStatus patches one order's status after validation. Cancelling
// a paid order refunds the wallet. The response carries the stored order, so
// callers only ever see the confirmed state.
func (s *OrderService) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !models.ValidOrderStatus(body.Status) {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	var current models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&current); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if current.Status == models.OrderCancelled || current.Status == models.OrderDelivered {
		http.Error(w, "Order is already "+current.Status, http.StatusConflict)
		return
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err := db.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"status": body.Status, "updatedAt": time.Now()}},
		after,
	).Decode(&updated)
	if err != nil {
		log.Println("UpdateOrderStatus error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	if body.Status == models.OrderCancelled {
		if _, err := s.wallet.Refund(ctx, updated.UserID, updated.TotalAmount, updated.OrderID); err != nil {
			log.Printf("UpdateOrderStatus: refund failed for %s: %v", updated.OrderID, err)
		}
	}

	if s.feed != nil {
		s.feed.BroadcastOrder(updated)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"order": updated})
}

package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"philately/db"
	"philately/models"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetCart returns the user's cart with its maintained aggregates.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store, err := Load(ctx, userID)
	if err != nil {
		log.Println("GetCart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, store.Doc(userID))
}

// AddToCart adds one unit of a stamp. Price, name and category come from the
// catalog, never from the request body.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		StampID string `json:"stampId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.StampID == "" {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var stamp models.Stamp
	if err := db.StampsCollection.FindOne(ctx, bson.M{"stampid": body.StampID}).Decode(&stamp); err != nil {
		http.Error(w, "Stamp not found", http.StatusNotFound)
		return
	}

	store, err := Load(ctx, userID)
	if err != nil {
		log.Println("AddToCart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	store.AddItem(Product{
		ID:       stamp.StampID,
		Name:     stamp.Name,
		Price:    stamp.Price,
		Category: stamp.Category,
	})

	if err := Save(ctx, userID, store); err != nil {
		log.Println("AddToCart save error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, store.Doc(userID))
}

// UpdateQuantity sets a line's quantity. Zero or negative quantities are
// rejected here; removal has its own route.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stampID := ps.ByName("stampid")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.Quantity <= 0 {
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store, err := Load(ctx, userID)
	if err != nil {
		log.Println("UpdateQuantity load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	store.SetQuantity(stampID, body.Quantity)

	if err := Save(ctx, userID, store); err != nil {
		log.Println("UpdateQuantity save error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, store.Doc(userID))
}

// RemoveFromCart drops a line entirely, whatever its quantity.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stampID := ps.ByName("stampid")

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store, err := Load(ctx, userID)
	if err != nil {
		log.Println("RemoveFromCart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	store.RemoveItem(stampID)

	if err := Save(ctx, userID, store); err != nil {
		log.Println("RemoveFromCart save error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, store.Doc(userID))
}

// ClearCart empties the user's cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := Clear(ctx, userID); err != nil {
		log.Println("ClearCart error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

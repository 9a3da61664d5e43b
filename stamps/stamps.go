package stamps

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"philately/db"
	"philately/models"
	"philately/rdx"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var validCategories = map[string]bool{
	models.CategoryDefinitive:     true,
	models.CategoryCommemorative:  true,
	models.CategoryMiniatureSheet: true,
	models.CategoryFirstDayCover:  true,
}

type stampInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Year        int     `json:"year"`
	StockCount  int     `json:"stockCount"`
}

func (in *stampInput) validate() string {
	if strings.TrimSpace(in.Name) == "" {
		return "Name is required"
	}
	if in.Price <= 0 {
		return "Price must be positive"
	}
	if !validCategories[in.Category] {
		return "Unknown category"
	}
	if in.StockCount < 0 {
		return "Stock cannot be negative"
	}
	return ""
}

// CreateStamp adds a catalog entry (admin only, enforced in routing).
func CreateStamp(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in stampInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if msg := in.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	stamp := models.Stamp{
		StampID:     "STP" + utils.GenerateRandomDigitString(10),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Year:        in.Year,
		StockCount:  in.StockCount,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if _, err := db.StampsCollection.InsertOne(ctx, stamp); err != nil {
		log.Println("CreateStamp InsertOne error:", err)
		http.Error(w, "Failed to create stamp", http.StatusInternalServerError)
		return
	}

	invalidateListCache()
	utils.RespondWithJSON(w, http.StatusCreated, stamp)
}

// EditStamp updates catalog fields of an existing stamp.
func EditStamp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stampID := ps.ByName("stampid")

	var in stampInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if msg := in.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"category":    in.Category,
		"year":        in.Year,
		"stockcount":  in.StockCount,
		"updated_at":  time.Now(),
	}}

	res, err := db.StampsCollection.UpdateOne(ctx, bson.M{"stampid": stampID}, update)
	if err != nil {
		log.Println("EditStamp UpdateOne error:", err)
		http.Error(w, "Failed to update stamp", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Stamp not found", http.StatusNotFound)
		return
	}

	invalidateListCache()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteStamp removes a catalog entry.
func DeleteStamp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stampID := ps.ByName("stampid")

	res, err := db.StampsCollection.DeleteOne(ctx, bson.M{"stampid": stampID})
	if err != nil {
		log.Println("DeleteStamp error:", err)
		http.Error(w, "Failed to delete stamp", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Stamp not found", http.StatusNotFound)
		return
	}

	invalidateListCache()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func invalidateListCache() {
	if err := rdx.RdxDel(listCacheKey); err != nil {
		log.Println("stamp cache invalidate error:", err)
	}
}

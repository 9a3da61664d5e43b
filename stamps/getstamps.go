package stamps

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"philately/db"
	"philately/models"
	"philately/rdx"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	listCacheKey = "stamps:list:all"
	listCacheTTL = 2 * time.Minute
)

// GetStamps lists the catalog with optional ?category=, ?q= text search and
// skip/limit pagination. The unfiltered first page is served from Redis.
func GetStamps(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	cacheable := category == "" && query == "" && skip == 0 && limit == 50
	if cacheable {
		if cached, err := rdx.RdxGet(listCacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if query != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"description": bson.M{"$regex": query, "$options": "i"}},
		}
	}

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cur, err := db.StampsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("GetStamps Find error:", err)
		http.Error(w, "Could not retrieve stamps", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Stamp
	if err := cur.All(ctx, &list); err != nil {
		log.Println("GetStamps cursor.All error:", err)
		http.Error(w, "Error reading stamps", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Stamp{}
	}

	total, err := db.StampsCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("GetStamps CountDocuments error:", err)
		http.Error(w, "Could not retrieve stamps", http.StatusInternalServerError)
		return
	}

	payload := utils.M{"stamps": list, "total": total}

	if cacheable {
		if data, err := json.Marshal(payload); err == nil {
			if err := rdx.RdxSet(listCacheKey, string(data), listCacheTTL); err != nil {
				log.Println("GetStamps cache set error:", err)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// GetStamp returns one catalog entry.
func GetStamp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stampID := ps.ByName("stampid")

	var stamp models.Stamp
	if err := db.StampsCollection.FindOne(ctx, bson.M{"stampid": stampID}).Decode(&stamp); err != nil {
		http.Error(w, "Stamp not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stamp)
}

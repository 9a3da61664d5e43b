package events

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"philately/db"
	"philately/models"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetEvents lists upcoming exhibitions, soonest first. ?city= filters.
func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": "active"}
	if city := r.URL.Query().Get("city"); city != "" {
		filter["city"] = city
	}

	findOptions := options.Find().SetSort(bson.M{"date": 1}).SetLimit(100)
	cur, err := db.EventsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("GetEvents Find error:", err)
		http.Error(w, "Could not retrieve events", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Event
	if err := cur.All(ctx, &list); err != nil {
		log.Println("GetEvents cursor.All error:", err)
		http.Error(w, "Error reading events", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": list})
}

// GetEvent returns one event.
func GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := ps.ByName("eventid")

	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event); err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, event)
}

// CreateEvent records a new exhibition (admin only, enforced in routing).
func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Venue       string    `json:"venue"`
		City        string    `json:"city"`
		Date        time.Time `json:"date"`
		Capacity    int       `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Venue) == "" {
		http.Error(w, "Title and venue are required", http.StatusBadRequest)
		return
	}
	if input.Capacity <= 0 {
		http.Error(w, "Capacity must be positive", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	event := models.Event{
		EventID:     "ev" + utils.GenerateRandomString(12),
		Title:       input.Title,
		Description: input.Description,
		Venue:       input.Venue,
		City:        input.City,
		Date:        input.Date.UTC(),
		Capacity:    input.Capacity,
		Status:      "active",
		CreatedBy:   userID,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := db.EventsCollection.InsertOne(ctx, event); err != nil {
		log.Println("CreateEvent InsertOne error:", err)
		http.Error(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, event)
}

// DeleteEvent cancels an exhibition and drops its RSVPs.
func DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := ps.ByName("eventid")

	res, err := db.EventsCollection.DeleteOne(ctx, bson.M{"eventid": eventID})
	if err != nil {
		log.Println("DeleteEvent error:", err)
		http.Error(w, "Failed to delete event", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	if _, err := db.RSVPCollection.DeleteMany(ctx, bson.M{"eventid": eventID}); err != nil {
		log.Println("DeleteEvent RSVP cleanup error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

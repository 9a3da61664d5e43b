package events

import (
	"context"
	"log"
	"net/http"
	"time"

	"philately/db"
	"philately/models"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateRSVP registers the caller for an event, respecting capacity.
func CreateRSVP(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := ps.ByName("eventid")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var existing models.RSVP
	err := db.RSVPCollection.FindOne(ctx, bson.M{"eventid": eventID, "userid": userID}).Decode(&existing)
	if err == nil {
		http.Error(w, "Already registered for this event", http.StatusConflict)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Println("CreateRSVP lookup error:", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	// Claim a seat only while rsvpcount is still below capacity. A plain
	// read-then-write would let two late registrations both through.
	filter := bson.M{
		"eventid": eventID,
		"status":  "active",
		"$expr":   bson.M{"$lt": bson.A{"$rsvpcount", "$capacity"}},
	}
	res, err := db.EventsCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"rsvpcount": 1}})
	if err != nil {
		log.Println("CreateRSVP seat claim error:", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}
	if res.ModifiedCount == 0 {
		http.Error(w, "Event is full or not open for registration", http.StatusConflict)
		return
	}

	username := utils.GetUsernameFromRequest(r)
	rsvp := models.RSVP{
		RSVPID:     "rs" + utils.GenerateRandomString(12),
		EventID:    eventID,
		UserID:     userID,
		Username:   username,
		UniqueCode: utils.GenerateRandomString(16),
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := db.RSVPCollection.InsertOne(ctx, rsvp); err != nil {
		log.Println("CreateRSVP InsertOne error:", err)
		// Release the seat we claimed above.
		if _, rbErr := db.EventsCollection.UpdateOne(ctx,
			bson.M{"eventid": eventID},
			bson.M{"$inc": bson.M{"rsvpcount": -1}}); rbErr != nil {
			log.Println("CreateRSVP seat rollback error:", rbErr)
		}
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, rsvp)
}

// CancelRSVP withdraws the caller's registration.
func CancelRSVP(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := ps.ByName("eventid")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.RSVPCollection.DeleteOne(ctx, bson.M{"eventid": eventID, "userid": userID})
	if err != nil {
		log.Println("CancelRSVP error:", err)
		http.Error(w, "Failed to cancel registration", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "No registration found for this event", http.StatusNotFound)
		return
	}

	if _, err := db.EventsCollection.UpdateOne(ctx,
		bson.M{"eventid": eventID},
		bson.M{"$inc": bson.M{"rsvpcount": -1}}); err != nil {
		log.Println("CancelRSVP counter error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// MyRSVPs lists the caller's registrations, newest first.
func MyRSVPs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cur, err := db.RSVPCollection.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		log.Println("MyRSVPs Find error:", err)
		http.Error(w, "Could not retrieve registrations", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var rsvps []models.RSVP
	if err := cur.All(ctx, &rsvps); err != nil {
		log.Println("MyRSVPs cursor.All error:", err)
		http.Error(w, "Error reading registrations", http.StatusInternalServerError)
		return
	}
	if len(rsvps) == 0 {
		rsvps = []models.RSVP{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"rsvps": rsvps})
}

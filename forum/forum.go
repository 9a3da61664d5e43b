package forum

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"philately/db"
	"philately/middleware"
	"philately/models"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListThreads returns threads ordered by most recent activity.
func ListThreads(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "lastreplyat", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(100)

	cur, err := db.ThreadsCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Println("ListThreads Find error:", err)
		http.Error(w, "Could not retrieve threads", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var threads []models.Thread
	if err := cur.All(ctx, &threads); err != nil {
		log.Println("ListThreads cursor.All error:", err)
		http.Error(w, "Error reading threads", http.StatusInternalServerError)
		return
	}
	if len(threads) == 0 {
		threads = []models.Thread{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"threads": threads})
}

// CreateThread opens a new discussion topic.
func CreateThread(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	thread := models.Thread{
		ThreadID:   "th" + utils.GenerateRandomString(12),
		Title:      input.Title,
		Body:       input.Body,
		AuthorID:   userID,
		AuthorName: utils.GetUsernameFromRequest(r),
		CreatedAt:  time.Now(),
	}

	if _, err := db.ThreadsCollection.InsertOne(ctx, thread); err != nil {
		log.Println("CreateThread InsertOne error:", err)
		http.Error(w, "Failed to create thread", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, thread)
}

// GetThread returns one thread with its replies, oldest first.
func GetThread(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	threadID := ps.ByName("threadid")

	var thread models.Thread
	if err := db.ThreadsCollection.FindOne(ctx, bson.M{"threadid": threadID}).Decode(&thread); err != nil {
		http.Error(w, "Thread not found", http.StatusNotFound)
		return
	}

	findOptions := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := db.RepliesCollection.Find(ctx, bson.M{"threadid": threadID}, findOptions)
	if err != nil {
		log.Println("GetThread replies error:", err)
		http.Error(w, "Could not retrieve replies", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var replies []models.Reply
	if err := cur.All(ctx, &replies); err != nil {
		log.Println("GetThread cursor.All error:", err)
		http.Error(w, "Error reading replies", http.StatusInternalServerError)
		return
	}
	if len(replies) == 0 {
		replies = []models.Reply{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"thread":  thread,
		"replies": replies,
	})
}

// CreateReply appends a reply and bumps the thread's counters.
func CreateReply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	threadID := ps.ByName("threadid")

	var input struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(input.Body) == "" {
		http.Error(w, "Body is required", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if count, err := db.ThreadsCollection.CountDocuments(ctx, bson.M{"threadid": threadID}); err != nil || count == 0 {
		http.Error(w, "Thread not found", http.StatusNotFound)
		return
	}

	reply := models.Reply{
		ReplyID:    "re" + utils.GenerateRandomString(12),
		ThreadID:   threadID,
		Body:       input.Body,
		AuthorID:   userID,
		AuthorName: utils.GetUsernameFromRequest(r),
		CreatedAt:  time.Now(),
	}

	if _, err := db.RepliesCollection.InsertOne(ctx, reply); err != nil {
		log.Println("CreateReply InsertOne error:", err)
		http.Error(w, "Failed to create reply", http.StatusInternalServerError)
		return
	}

	if _, err := db.ThreadsCollection.UpdateOne(ctx,
		bson.M{"threadid": threadID},
		bson.M{
			"$inc": bson.M{"replycount": 1},
			"$set": bson.M{"lastreplyat": reply.CreatedAt},
		},
	); err != nil {
		log.Println("CreateReply counter update error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, reply)
}

func requesterMayDelete(r *http.Request, authorID string) bool {
	userID := utils.GetUserIDFromRequest(r)
	if userID == authorID {
		return true
	}
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		return false
	}
	for _, role := range claims.Role {
		if role == "admin" {
			return true
		}
	}
	return false
}

// DeleteThread removes a thread and its replies (author or admin).
func DeleteThread(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	threadID := ps.ByName("threadid")

	var thread models.Thread
	if err := db.ThreadsCollection.FindOne(ctx, bson.M{"threadid": threadID}).Decode(&thread); err != nil {
		http.Error(w, "Thread not found", http.StatusNotFound)
		return
	}
	if !requesterMayDelete(r, thread.AuthorID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if _, err := db.RepliesCollection.DeleteMany(ctx, bson.M{"threadid": threadID}); err != nil {
		log.Println("DeleteThread replies cleanup error:", err)
	}
	if _, err := db.ThreadsCollection.DeleteOne(ctx, bson.M{"threadid": threadID}); err != nil {
		log.Println("DeleteThread error:", err)
		http.Error(w, "Failed to delete thread", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteReply removes one reply and decrements the thread counter.
func DeleteReply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	replyID := ps.ByName("replyid")

	var reply models.Reply
	if err := db.RepliesCollection.FindOne(ctx, bson.M{"replyid": replyID}).Decode(&reply); err != nil {
		http.Error(w, "Reply not found", http.StatusNotFound)
		return
	}
	if !requesterMayDelete(r, reply.AuthorID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if _, err := db.RepliesCollection.DeleteOne(ctx, bson.M{"replyid": replyID}); err != nil {
		log.Println("DeleteReply error:", err)
		http.Error(w, "Failed to delete reply", http.StatusInternalServerError)
		return
	}

	if _, err := db.ThreadsCollection.UpdateOne(ctx,
		bson.M{"threadid": reply.ThreadID},
		bson.M{"$inc": bson.M{"replycount": -1}},
	); err != nil {
		log.Println("DeleteReply counter update error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

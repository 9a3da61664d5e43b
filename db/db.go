package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	StampsCollection      *mongo.Collection
	CartCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	AccountsCollection    *mongo.Collection
	TransactionCollection *mongo.Collection
	ThreadsCollection     *mongo.Collection
	RepliesCollection     *mongo.Collection
	EventsCollection      *mongo.Collection
	RSVPCollection        *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("philatelydb")
	UserCollection = database.Collection("users")
	StampsCollection = database.Collection("stamps")
	CartCollection = database.Collection("carts")
	OrderCollection = database.Collection("orders")
	AccountsCollection = database.Collection("accounts")
	TransactionCollection = database.Collection("transactions")
	ThreadsCollection = database.Collection("threads")
	RepliesCollection = database.Collection("replies")
	EventsCollection = database.Collection("events")
	RSVPCollection = database.Collection("rsvps")
}

package models

import "time"

// Event is a philatelic exhibition or meetup users can RSVP to. RSVPCount is
// kept with counters on register/cancel.
type Event struct {
	EventID     string    `json:"eventId" bson:"eventid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Venue       string    `json:"venue" bson:"venue"`
	City        string    `json:"city" bson:"city"`
	Date        time.Time `json:"date" bson:"date"`
	Capacity    int       `json:"capacity" bson:"capacity"`
	RSVPCount   int       `json:"rsvpCount" bson:"rsvpcount"`
	Status      string    `json:"status" bson:"status"`
	CreatedBy   string    `json:"createdBy" bson:"createdby"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// RSVP registers one user's interest in an event. UniqueCode feeds the
// signed QR pass.
type RSVP struct {
	RSVPID     string    `json:"rsvpId" bson:"rsvpid"`
	EventID    string    `json:"eventId" bson:"eventid"`
	UserID     string    `json:"userId" bson:"userid"`
	Username   string    `json:"username" bson:"username"`
	UniqueCode string    `json:"uniqueCode" bson:"uniquecode"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

package models

import "time"

// Thread is a forum discussion topic. ReplyCount and LastReplyAt are
// maintained with $inc/$set on reply writes, not recomputed on read.
type Thread struct {
	ThreadID    string    `json:"threadId" bson:"threadid"`
	Title       string    `json:"title" bson:"title"`
	Body        string    `json:"body" bson:"body"`
	AuthorID    string    `json:"authorId" bson:"authorid"`
	AuthorName  string    `json:"authorName" bson:"authorname"`
	ReplyCount  int       `json:"replyCount" bson:"replycount"`
	LastReplyAt time.Time `json:"lastReplyAt,omitempty" bson:"lastreplyat,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Reply is one forum post under a thread.
type Reply struct {
	ReplyID    string    `json:"replyId" bson:"replyid"`
	ThreadID   string    `json:"threadId" bson:"threadid"`
	Body       string    `json:"body" bson:"body"`
	AuthorID   string    `json:"authorId" bson:"authorid"`
	AuthorName string    `json:"authorName" bson:"authorname"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

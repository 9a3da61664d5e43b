package models

import "time"

// User is an account holder. Password is the bcrypt hash, never the
// plaintext, and never serialized back out.
type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	LastLogin time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
}

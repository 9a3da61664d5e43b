package models

import "time"

// CartLine is one stamp-and-quantity entry in a user's cart. UnitPrice is
// captured when the line is created so later catalog edits do not silently
// reprice a cart.
type CartLine struct {
	StampID   string  `json:"stampId" bson:"stampid"`
	Name      string  `json:"name" bson:"name"`
	UnitPrice float64 `json:"unitPrice" bson:"unitprice"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Category  string  `json:"category" bson:"category"`
}

// CartDoc is the persisted cart, one document per user. Lines keep insertion
// order; the aggregates are stored alongside and updated with every mutation
// rather than recomputed on read.
type CartDoc struct {
	UserID        string     `json:"userId" bson:"userId"`
	Lines         []CartLine `json:"lines" bson:"lines"`
	TotalQuantity int        `json:"totalQuantity" bson:"totalquantity"`
	TotalAmount   float64    `json:"totalAmount" bson:"totalamount"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updated_at"`
}

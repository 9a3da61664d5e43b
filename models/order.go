package models

import "time"

// Order lifecycle statuses. Transitions are applied server-side only.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is a known lifecycle status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem records one purchased line at the price paid.
type OrderItem struct {
	StampID   string  `json:"stampId" bson:"stampid"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unitPrice" bson:"unitprice"`
}

// ShippingAddress is validated at checkout and stored on the order. It is
// never persisted outside an order.
type ShippingAddress struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
}

// Order is an immutable record of a completed purchase.
type Order struct {
	OrderID         string          `json:"orderId" bson:"orderId"`
	UserID          string          `json:"userId" bson:"userId"`
	Items           []OrderItem     `json:"items" bson:"items"`
	Subtotal        float64         `json:"subtotal" bson:"subtotal"`
	DeliveryCharge  float64         `json:"deliveryCharge" bson:"deliverycharge"`
	TotalAmount     float64         `json:"totalAmount" bson:"totalamount"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingaddress"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentMethod"`
	Status          string          `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

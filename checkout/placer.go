package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"philately/db"
	"philately/models"
	"philately/wallet"

	"go.mongodb.org/mongo-driver/bson"
)

// WalletOrderPlacer is the production OrderPlacer: it reserves stock, debits
// the wallet, and inserts the order, rolling back on any failure so that a
// rejected submission changes nothing.
type WalletOrderPlacer struct {
	Wallet *wallet.WalletService
	// Notify is called with the placed order, e.g. to feed the admin
	// order stream. Optional.
	Notify func(models.Order)
}

func NewWalletOrderPlacer(w *wallet.WalletService) *WalletOrderPlacer {
	return &WalletOrderPlacer{Wallet: w}
}

func newOrderID() string {
	return "ORD" + strconv.FormatInt(time.Now().UnixNano()%1e9, 10)
}

// reserveStock decrements stock for each item, guarded by a stockcount
// filter so concurrent orders cannot oversell. Returns the items already
// reserved so the caller can restore them on failure.
func reserveStock(ctx context.Context, items []models.OrderItem) ([]models.OrderItem, error) {
	var reserved []models.OrderItem
	for _, item := range items {
		res, err := db.StampsCollection.UpdateOne(ctx,
			bson.M{"stampid": item.StampID, "stockcount": bson.M{"$gte": item.Quantity}},
			bson.M{"$inc": bson.M{"stockcount": -item.Quantity}},
		)
		if err != nil {
			return reserved, err
		}
		if res.ModifiedCount == 0 {
			return reserved, fmt.Errorf("out of stock: %s", item.Name)
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

func restoreStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if _, err := db.StampsCollection.UpdateOne(ctx,
			bson.M{"stampid": item.StampID},
			bson.M{"$inc": bson.M{"stockcount": item.Quantity}},
		); err != nil {
			log.Printf("restoreStock: failed for %s: %v", item.StampID, err)
		}
	}
}

// PlaceOrder runs the single side-effecting step of checkout under the
// per-user wallet lock: stock reservation, wallet debit, order insert.
func (p *WalletOrderPlacer) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	acquired, err := p.Wallet.Lock(order.UserID)
	if err != nil || !acquired {
		return models.Order{}, errors.New("wallet busy, please retry")
	}
	defer p.Wallet.Unlock(order.UserID)

	order.OrderID = newOrderID()
	order.Status = models.OrderPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	reserved, err := reserveStock(ctx, order.Items)
	if err != nil {
		restoreStock(ctx, reserved)
		return models.Order{}, err
	}

	if _, _, err := p.Wallet.Debit(ctx, order.UserID, order.TotalAmount,
		"Payment for order "+order.OrderID, order.OrderID); err != nil {
		restoreStock(ctx, reserved)
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return models.Order{}, err
		}
		return models.Order{}, errors.New("payment failed")
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("PlaceOrder InsertOne error:", err)
		if _, refundErr := p.Wallet.Refund(ctx, order.UserID, order.TotalAmount, order.OrderID); refundErr != nil {
			log.Printf("PlaceOrder: refund after failed insert also failed for %s: %v", order.OrderID, refundErr)
		}
		restoreStock(ctx, reserved)
		return models.Order{}, errors.New("order creation failed")
	}

	if p.Notify != nil {
		p.Notify(order)
	}
	return order, nil
}

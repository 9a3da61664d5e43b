package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"philately/cart"
	"philately/models"
	"philately/utils"
	"philately/wallet"

	"github.com/julienschmidt/httprouter"
)

// CheckoutService wires the flow's collaborators once and builds a fresh
// Flow per submission.
type CheckoutService struct {
	balances BalanceSource
	placer   OrderPlacer
	carts    CartClearer
}

func NewCheckoutService(w *wallet.WalletService, placer *WalletOrderPlacer) *CheckoutService {
	return &CheckoutService{
		balances: w,
		placer:   placer,
		carts:    mongoCarts{},
	}
}

// mongoCarts adapts the cart package's persistence functions to CartClearer.
type mongoCarts struct{}

func (mongoCarts) Clear(ctx context.Context, userID string) error {
	return cart.Clear(ctx, userID)
}

// placeOrderRequest is the typed body of POST /api/orders. Items and
// totalAmount are advisory: the server-side cart and fee schedule are
// authoritative, so a stale client cannot place a mispriced order.
type placeOrderRequest struct {
	Items           []models.OrderItem     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	TotalAmount     float64                `json:"totalAmount"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// PlaceOrder converts the user's cart into an order via the checkout flow.
func (s *CheckoutService) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.PaymentMethod != "" && req.PaymentMethod != "wallet" {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"message": "wallet is the only supported payment method",
		})
		return
	}

	store, err := cart.Load(ctx, userID)
	if err != nil {
		log.Println("PlaceOrder cart load error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	flow := NewFlow(s.balances, s.placer, s.carts)
	order, err := flow.Submit(ctx, userID, store.Lines(), req.ShippingAddress)
	if err != nil {
		respondFlowError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"order": order})
}

func respondFlowError(w http.ResponseWriter, err error) {
	var fe *FlowError
	if !errors.As(err, &fe) {
		http.Error(w, "checkout failed", http.StatusInternalServerError)
		return
	}

	switch fe.Reason {
	case ReasonAddressInvalid:
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.M{
			"message": fe.Message,
			"fields":  fe.Fields,
		})
	case ReasonInsufficientBalance:
		utils.RespondWithJSON(w, http.StatusPaymentRequired, utils.M{
			"message": fe.Message,
		})
	default:
		// server rejection: message travels verbatim
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"message": fe.Message,
		})
	}
}

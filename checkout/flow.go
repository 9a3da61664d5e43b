package checkout

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync/atomic"

	"philately/models"
	"philately/utils"
)

// Stage is one step of the checkout flow.
type Stage string

const (
	StageIdle              Stage = "Idle"
	StageValidatingAddress Stage = "ValidatingAddress"
	StageCheckingBalance   Stage = "CheckingBalance"
	StageSubmitting        Stage = "Submitting"
	StageSucceeded         Stage = "Succeeded"
	StageFailed            Stage = "Failed"
)

func (s Stage) IsTerminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// String representation (for logging)
func (s Stage) String() string {
	return string(s)
}

// FailureReason classifies why a checkout ended in StageFailed.
type FailureReason string

const (
	ReasonAddressInvalid      FailureReason = "AddressInvalid"
	ReasonInsufficientBalance FailureReason = "InsufficientBalance"
	ReasonServerRejected      FailureReason = "ServerRejected"
)

// FlowError carries the failure reason, the message shown to the user, and
// per-field messages for validation failures. Server messages travel
// verbatim in Message.
type FlowError struct {
	Reason  FailureReason
	Message string
	Fields  map[string]string
}

func (e *FlowError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Reason)
}

// BalanceSource reads the stored wallet balance. The read here is the
// advisory fast-path check; the authoritative check happens inside the
// OrderPlacer at debit time.
type BalanceSource interface {
	CurrentBalance(ctx context.Context, userID string) (float64, error)
}

// OrderPlacer performs the single side-effecting step: debit the wallet and
// record the order, atomically from the caller's point of view.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order models.Order) (models.Order, error)
}

// CartClearer empties the user's cart after a successful placement.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// Flow serializes one cart-to-order conversion:
// Idle → ValidatingAddress → CheckingBalance → Submitting → Succeeded|Failed.
// A Flow value is not reentrant: a second Submit while one is in flight is
// refused without side effects.
type Flow struct {
	balances BalanceSource
	placer   OrderPlacer
	carts    CartClearer

	stage    atomic.Value // Stage
	inFlight atomic.Bool
}

func NewFlow(balances BalanceSource, placer OrderPlacer, carts CartClearer) *Flow {
	f := &Flow{balances: balances, placer: placer, carts: carts}
	f.stage.Store(StageIdle)
	return f
}

func (f *Flow) Stage() Stage {
	return f.stage.Load().(Stage)
}

func (f *Flow) setStage(s Stage) {
	f.stage.Store(s)
}

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// ValidateAddress checks the shipping address and returns per-field error
// messages. An empty map means the address is valid.
func ValidateAddress(addr models.ShippingAddress) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(addr.Street) == "" {
		fields["street"] = "Street is required"
	}
	if strings.TrimSpace(addr.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(addr.State) == "" {
		fields["state"] = "State is required"
	}
	if !pincodeRe.MatchString(addr.Pincode) {
		fields["pincode"] = "Pincode must be exactly 6 digits"
	}
	return fields
}

// Submit runs the flow for one cart snapshot. On any failure the cart is
// left untouched; the cart is cleared exactly once, after the order is
// placed.
func (f *Flow) Submit(ctx context.Context, userID string, lines []models.CartLine, addr models.ShippingAddress) (models.Order, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return models.Order{}, &FlowError{
			Reason:  ReasonServerRejected,
			Message: "a checkout is already in progress",
		}
	}
	defer f.inFlight.Store(false)

	f.setStage(StageValidatingAddress)
	if fields := ValidateAddress(addr); len(fields) > 0 {
		f.setStage(StageFailed)
		return models.Order{}, &FlowError{
			Reason:  ReasonAddressInvalid,
			Message: "invalid shipping address",
			Fields:  fields,
		}
	}

	if len(lines) == 0 {
		f.setStage(StageFailed)
		return models.Order{}, &FlowError{
			Reason:  ReasonServerRejected,
			Message: "cart is empty, nothing to checkout",
		}
	}

	f.setStage(StageCheckingBalance)
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	delivery := utils.DeliveryCharge(subtotal)
	finalAmount := subtotal + delivery

	balance, err := f.balances.CurrentBalance(ctx, userID)
	if err != nil {
		f.setStage(StageFailed)
		return models.Order{}, &FlowError{
			Reason:  ReasonServerRejected,
			Message: "could not read wallet balance",
		}
	}
	if balance < finalAmount {
		f.setStage(StageFailed)
		return models.Order{}, &FlowError{
			Reason: ReasonInsufficientBalance,
			Message: fmt.Sprintf("wallet balance %s is less than order total %s",
				utils.FormatINR(balance), utils.FormatINR(finalAmount)),
		}
	}

	f.setStage(StageSubmitting)
	order := models.Order{
		UserID:          userID,
		Items:           itemsFromLines(lines),
		Subtotal:        subtotal,
		DeliveryCharge:  delivery,
		TotalAmount:     finalAmount,
		ShippingAddress: addr,
		PaymentMethod:   "wallet",
		Status:          models.OrderPending,
	}

	placed, err := f.placer.PlaceOrder(ctx, order)
	if err != nil {
		f.setStage(StageFailed)
		return models.Order{}, &FlowError{
			Reason:  ReasonServerRejected,
			Message: err.Error(),
		}
	}

	// Cart is cleared only after the order exists. A failed clear does not
	// undo the placement; it is logged and the next load resyncs.
	if err := f.carts.Clear(ctx, userID); err != nil {
		log.Printf("checkout: cart clear failed for user %s after order %s: %v", userID, placed.OrderID, err)
	}

	f.setStage(StageSucceeded)
	return placed, nil
}

func itemsFromLines(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			StampID:   l.StampID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return items
}

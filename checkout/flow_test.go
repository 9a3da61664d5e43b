package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philately/models"
)

type mockBalances struct {
	balance float64
	err     error
	calls   int
}

func (m *mockBalances) CurrentBalance(context.Context, string) (float64, error) {
	m.calls++
	return m.balance, m.err
}

type mockPlacer struct {
	mu     sync.Mutex
	err    error
	placed []models.Order
	block  chan struct{} // when set, PlaceOrder waits until closed
}

func (m *mockPlacer) PlaceOrder(_ context.Context, order models.Order) (models.Order, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Order{}, m.err
	}
	order.OrderID = "ORD123"
	m.placed = append(m.placed, order)
	return order, nil
}

type mockCarts struct {
	cleared int
	err     error
}

func (m *mockCarts) Clear(context.Context, string) error {
	m.cleared++
	return m.err
}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Street:  "12 Dak Bhawan Road",
		City:    "New Delhi",
		State:   "Delhi",
		Pincode: "110001",
	}
}

func someLines() []models.CartLine {
	return []models.CartLine{
		{StampID: "p1", Name: "Gandhi 150", UnitPrice: 100, Quantity: 4},
		{StampID: "p2", Name: "Peacock Definitive", UnitPrice: 25, Quantity: 2},
	}
}

func TestSubmitHappyPath(t *testing.T) {
	balances := &mockBalances{balance: 1000}
	placer := &mockPlacer{}
	carts := &mockCarts{}
	flow := NewFlow(balances, placer, carts)

	order, err := flow.Submit(context.Background(), "u1", someLines(), validAddress())
	require.NoError(t, err)

	assert.Equal(t, StageSucceeded, flow.Stage())
	assert.Equal(t, "ORD123", order.OrderID)
	// subtotal 450 is below the free-delivery threshold, so +50
	assert.InDelta(t, 450.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 50.0, order.DeliveryCharge, 1e-9)
	assert.InDelta(t, 500.0, order.TotalAmount, 1e-9)
	assert.Equal(t, "wallet", order.PaymentMethod)
	assert.Equal(t, 1, carts.cleared)
}

func TestSubmitFreeDeliveryAtThreshold(t *testing.T) {
	balances := &mockBalances{balance: 1000}
	placer := &mockPlacer{}
	flow := NewFlow(balances, placer, &mockCarts{})

	lines := []models.CartLine{{StampID: "p1", Name: "Sheet", UnitPrice: 500, Quantity: 1}}
	order, err := flow.Submit(context.Background(), "u1", lines, validAddress())
	require.NoError(t, err)

	assert.Zero(t, order.DeliveryCharge)
	assert.InDelta(t, 500.0, order.TotalAmount, 1e-9)
}

func TestSubmitShortPincodeFailsBeforeBalanceCheck(t *testing.T) {
	balances := &mockBalances{balance: 1000}
	placer := &mockPlacer{}
	carts := &mockCarts{}
	flow := NewFlow(balances, placer, carts)

	addr := validAddress()
	addr.Pincode = "1234"
	_, err := flow.Submit(context.Background(), "u1", someLines(), addr)

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonAddressInvalid, fe.Reason)
	assert.Contains(t, fe.Fields, "pincode")
	assert.Equal(t, StageFailed, flow.Stage())
	// validation failure must stop the flow cold
	assert.Zero(t, balances.calls)
	assert.Empty(t, placer.placed)
	assert.Zero(t, carts.cleared)
}

func TestSubmitEmptyAddressFieldErrors(t *testing.T) {
	fields := ValidateAddress(models.ShippingAddress{Pincode: "110001"})
	assert.Contains(t, fields, "street")
	assert.Contains(t, fields, "city")
	assert.Contains(t, fields, "state")
	assert.NotContains(t, fields, "pincode")
}

func TestSubmitInsufficientBalanceSendsNoOrder(t *testing.T) {
	// balance 400 against finalAmount 450+... (450 subtotal + 50 delivery)
	balances := &mockBalances{balance: 400}
	placer := &mockPlacer{}
	carts := &mockCarts{}
	flow := NewFlow(balances, placer, carts)

	_, err := flow.Submit(context.Background(), "u1", someLines(), validAddress())

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonInsufficientBalance, fe.Reason)
	assert.Empty(t, placer.placed)
	assert.Zero(t, carts.cleared)
	assert.Equal(t, StageFailed, flow.Stage())
}

func TestSubmitServerRejectionLeavesCartAlone(t *testing.T) {
	balances := &mockBalances{balance: 1000}
	placer := &mockPlacer{err: errors.New("out of stock: Gandhi 150")}
	carts := &mockCarts{}
	flow := NewFlow(balances, placer, carts)

	_, err := flow.Submit(context.Background(), "u1", someLines(), validAddress())

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonServerRejected, fe.Reason)
	// server message surfaces verbatim
	assert.Equal(t, "out of stock: Gandhi 150", fe.Message)
	assert.Zero(t, carts.cleared)
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	flow := NewFlow(&mockBalances{balance: 100}, &mockPlacer{}, &mockCarts{})

	_, err := flow.Submit(context.Background(), "u1", nil, validAddress())

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonServerRejected, fe.Reason)
}

func TestSubmitBalanceReadFailure(t *testing.T) {
	balances := &mockBalances{err: errors.New("mongo down")}
	placer := &mockPlacer{}
	flow := NewFlow(balances, placer, &mockCarts{})

	_, err := flow.Submit(context.Background(), "u1", someLines(), validAddress())

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonServerRejected, fe.Reason)
	assert.Empty(t, placer.placed)
}

func TestSubmitNotReentrant(t *testing.T) {
	block := make(chan struct{})
	balances := &mockBalances{balance: 1000}
	placer := &mockPlacer{block: block}
	carts := &mockCarts{}
	flow := NewFlow(balances, placer, carts)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), "u1", someLines(), validAddress())
		done <- err
	}()

	// wait until the first submit is past the balance check and parked
	// inside the placer
	for flow.Stage() != StageSubmitting {
		time.Sleep(time.Millisecond)
	}

	_, err := flow.Submit(context.Background(), "u1", someLines(), validAddress())
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonServerRejected, fe.Reason)

	close(block)
	require.NoError(t, <-done)
	assert.Len(t, placer.placed, 1)
	assert.Equal(t, 1, carts.cleared)
}

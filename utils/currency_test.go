package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryCharge(t *testing.T) {
	assert.Equal(t, FlatDeliveryFee, DeliveryCharge(0))
	assert.Equal(t, FlatDeliveryFee, DeliveryCharge(499.99))
	assert.Equal(t, 0.0, DeliveryCharge(500))
	assert.Equal(t, 0.0, DeliveryCharge(1250.50))
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{5, "₹5.00"},
		{450, "₹450.00"},
		{1234.5, "₹1,234.50"},
		{100000, "₹1,00,000.00"},
		{12345678.9, "₹1,23,45,678.90"},
		{999.999, "₹1,000.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatINR(c.amount), "amount %v", c.amount)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 9, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "09 Mar 2025, 3:04 PM", FormatDate(d))
}

package utils

import (
	"fmt"
	"strings"
	"time"
)

// Delivery fee schedule: orders at or above the threshold ship free,
// everything below pays the flat fee.
const (
	FreeDeliveryThreshold = 500.0
	FlatDeliveryFee       = 50.0
)

// DeliveryCharge returns the shipping fee for a cart subtotal.
func DeliveryCharge(subtotal float64) float64 {
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return FlatDeliveryFee
}

// FormatINR renders an amount with the rupee sign and Indian digit grouping,
// e.g. 1234567.5 -> "₹12,34,567.50".
func FormatINR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	totalPaise := int64(amount*100 + 0.5)
	whole := totalPaise / 100
	paise := totalPaise % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped string
	if len(digits) <= 3 {
		grouped = digits
	} else {
		// Last three digits form one group, the rest pair up.
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, grouped, paise)
}

// FormatDate renders timestamps the way order and transaction views show them.
func FormatDate(t time.Time) string {
	return t.Format("02 Jan 2006, 3:04 PM")
}

package events

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassPayloadRoundTrip(t *testing.T) {
	payload := GeneratePassPayload("ev123", "rs456", "CODE789")

	eventID, rsvpID, uniqueCode, err := VerifyPassPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "ev123", eventID)
	assert.Equal(t, "rs456", rsvpID)
	assert.Equal(t, "CODE789", uniqueCode)
}

func TestPassPayloadTamperedSignature(t *testing.T) {
	payload := GeneratePassPayload("ev123", "rs456", "CODE789")

	parts := strings.Split(payload, "|")
	require.Len(t, parts, 5)
	parts[2] = "OTHERCODE"
	tampered := strings.Join(parts, "|")

	_, _, _, err := VerifyPassPayload(tampered)
	assert.EqualError(t, err, "invalid signature")
}

func TestPassPayloadBadFormat(t *testing.T) {
	_, _, _, err := VerifyPassPayload("not-a-pass")
	assert.EqualError(t, err, "invalid pass format")
}

func TestPassPayloadBadTimestamp(t *testing.T) {
	payload := GeneratePassPayload("ev123", "rs456", "CODE789")
	parts := strings.Split(payload, "|")
	parts[3] = "yesterday"
	_, _, _, err := VerifyPassPayload(strings.Join(parts, "|"))
	assert.EqualError(t, err, "invalid timestamp")
}

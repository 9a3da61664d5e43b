package wallet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAmount(t *testing.T) {
	assert.True(t, validAmount(0.01))
	assert.True(t, validAmount(500))

	assert.False(t, validAmount(0))
	assert.False(t, validAmount(-10))
	assert.False(t, validAmount(math.NaN()))
	assert.False(t, validAmount(math.Inf(1)))
}

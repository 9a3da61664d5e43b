package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func hit(h httprouter.Handle, addr string) int {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stamps", nil)
	req.RemoteAddr = addr
	h(rec, req, nil)
	return rec.Code
}

func TestLimitDeniesAfterBurst(t *testing.T) {
	rl := NewRateLimiter()
	handled := 0
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handled++
		w.WriteHeader(http.StatusOK)
	})

	var last int
	for i := 0; i < 11; i++ {
		last = hit(h, "203.0.113.7:1234")
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
	assert.Equal(t, 10, handled, "burst of 10 passes, the eleventh is denied")
}

func TestLimitIsPerIP(t *testing.T) {
	rl := NewRateLimiter()
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 11; i++ {
		hit(h, "203.0.113.7:1234")
	}

	assert.Equal(t, http.StatusOK, hit(h, "198.51.100.9:5678"),
		"one exhausted visitor must not block another")
}

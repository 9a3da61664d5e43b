package orders

import (
	"encoding/json"
	"testing"
	"time"

	"philately/models"
)

func TestFeedRegisterBroadcastUnregister(t *testing.T) {
	feed := NewFeed()
	go feed.Run()
	defer feed.Stop()

	client := &feedClient{
		send: make(chan []byte, 10),
	}

	feed.register <- client

	order := models.Order{OrderID: "ORD42", UserID: "u1", TotalAmount: 550, Status: models.OrderPending}
	feed.BroadcastPlaced(order)

	select {
	case got := <-client.send:
		var payload feedPayload
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if payload.Action != "placed" {
			t.Fatalf("expected action placed, got %s", payload.Action)
		}
		if payload.Order.OrderID != "ORD42" {
			t.Fatalf("expected ORD42, got %s", payload.Order.OrderID)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for feed message")
	}

	feed.unregister <- client
}

func TestFeedDropAfterStopDoesNotBlock(t *testing.T) {
	feed := NewFeed()
	go feed.Run()

	client := &feedClient{send: make(chan []byte, 1)}
	feed.register <- client
	feed.Stop()

	done := make(chan struct{})
	go func() {
		feed.drop(client)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("drop blocked after Stop")
	}
}

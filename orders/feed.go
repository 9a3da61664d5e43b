package orders

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"philately/middleware"
	"philately/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Feed pushes placed and updated orders to connected admin dashboards.
type Feed struct {
	clients    map[*feedClient]bool
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan []byte
	quit       chan struct{}
	mu         sync.Mutex
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// feedPayload is what admin dashboards receive per event.
type feedPayload struct {
	Action    string       `json:"action"` // "placed" or "updated"
	Order     models.Order `json:"order"`
	Timestamp int64        `json:"timestamp"`
}

func NewFeed() *Feed {
	return &Feed{
		clients:    make(map[*feedClient]bool),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan []byte),
		quit:       make(chan struct{}),
	}
}

func (f *Feed) Run() {
	for {
		select {
		case c := <-f.register:
			f.mu.Lock()
			f.clients[c] = true
			f.mu.Unlock()

		case c := <-f.unregister:
			f.mu.Lock()
			if f.clients[c] {
				delete(f.clients, c)
				close(c.send)
			}
			f.mu.Unlock()

		case data := <-f.broadcast:
			f.mu.Lock()
			for c := range f.clients {
				select {
				case c.send <- data:
				default:
					close(c.send)
					delete(f.clients, c)
				}
			}
			f.mu.Unlock()

		case <-f.quit:
			f.mu.Lock()
			for c := range f.clients {
				close(c.send)
				delete(f.clients, c)
			}
			f.mu.Unlock()
			return
		}
	}
}

func (f *Feed) Stop() {
	close(f.quit)
}

// drop removes a client from the hub, giving up once Run has returned so
// disconnecting readers cannot block on a channel nobody receives from.
func (f *Feed) drop(c *feedClient) {
	select {
	case f.unregister <- c:
	case <-f.quit:
	}
}

func (f *Feed) publish(action string, order models.Order) {
	data, err := json.Marshal(feedPayload{
		Action:    action,
		Order:     order,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Println("feed marshal error:", err)
		return
	}
	select {
	case f.broadcast <- data:
	case <-time.After(time.Second):
		// feed stalled; drop rather than block order placement
	}
}

// BroadcastPlaced announces a freshly placed order.
func (f *Feed) BroadcastPlaced(order models.Order) { f.publish("placed", order) }

// BroadcastOrder announces a status change.
func (f *Feed) BroadcastOrder(order models.Order) { f.publish("updated", order) }

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades an admin connection onto the order feed. Auth
// rides on the Authorization header or a ?token= query parameter, since
// browser websocket clients cannot set headers.
func (f *Feed) WebSocketHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			tokenString = "Bearer " + r.URL.Query().Get("token")
		}
		claims, err := middleware.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		admin := false
		for _, role := range claims.Role {
			if role == "admin" {
				admin = true
			}
		}
		if !admin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("feed upgrade error:", err)
			return
		}

		client := &feedClient{conn: conn, send: make(chan []byte, 256)}
		select {
		case f.register <- client:
		case <-f.quit:
			conn.Close()
			return
		}

		go func() {
			defer conn.Close()
			for msg := range client.send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
		}()
		go func() {
			defer func() {
				f.drop(client)
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}
}

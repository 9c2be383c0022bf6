package realtime

import (
	"log"
	"sync"
	"time"
)

// Event announces a row insert on a collection. The payload is
// deliberately id-only: subscribers re-fetch the full row through
// the API, so a stale or dropped push can never leave them with
// partial data.
type Event struct {
	Table     string    `json:"table"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans insert events out to connected websocket clients.
// Broadcasting is best effort: a slow consumer is dropped rather
// than allowed to block the writer.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	events     chan Event

	done chan struct{}
	once sync.Once
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
	}
}

// Start begins the hub's event loop.
func (h *Hub) Start() {
	go h.run()
}

// Stop closes all client connections and stops the loop.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// Publish queues an insert event for broadcast. Never blocks;
// when the queue is full the event is dropped and logged, since
// consumers reconcile via re-fetch anyway.
func (h *Hub) Publish(table string, id int64) {
	event := Event{Table: table, ID: id, Timestamp: time.Now()}
	select {
	case h.events <- event:
	default:
		log.Printf("Realtime queue full, dropping event for %s/%d", table, id)
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.events:
			h.mu.RLock()
			for client := range h.clients {
				if client.table != "" && client.table != event.Table {
					continue
				}
				select {
				case client.send <- event:
				default:
					// Client is not keeping up.
					go h.Unregister(client)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client] {
		delete(h.clients, client)
		client.close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

package realtime

import (
	"encoding/json"
	"sync"
)

// Hub fans job events out to the websocket clients watching that job.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

type Client struct {
	JobID string
	Send  chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: map[string]map[*Client]struct{}{}}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.JobID] == nil {
		h.clients[client.JobID] = map[*Client]struct{}{}
	}
	h.clients[client.JobID][client] = struct{}{}
}

// Unregister is safe to call more than once for the same client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.JobID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.clients, client.JobID)
	}
	close(client.Send)
}

func (h *Hub) Broadcast(jobID string, payload any) {
	message, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[jobID] {
		select {
		case client.Send <- message:
		default:
		}
	}
}

// Watchers returns how many clients follow jobID.
func (h *Hub) Watchers(jobID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[jobID])
}

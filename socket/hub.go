package socket

import (
	"encoding/json"
	"sync"

	"notewall/internal/card/model"
	"notewall/pkg/logger"
)

// Event kinds pushed over the realtime channel. Position updates from drag
// commits are deliberately not pushed; other sessions pick them up on their
// next full load.
const (
	InsertKind = "insert"
	DeleteKind = "delete"
)

// WallEvent is the realtime echo of a row-level change to the cards table.
// Every connected client receives it, including the one that caused it.
type WallEvent struct {
	Kind string      `json:"kind"`
	Card *model.Card `json:"card,omitempty"`
	ID   int64       `json:"id,omitempty"`
}

// Hub fans out wall events to every connected client. The wall is one shared
// canvas, so there are no rooms; all subscribers see all mutations.
type Hub struct {
	Broadcast  chan WallEvent
	Register   chan *Client
	Unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan WallEvent, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Sugar.Infof("Client %s subscribed to the wall", client.UserID)

		case client := <-h.Unregister:
			h.drop(client)

		case event := <-h.Broadcast:
			// Marshal once for all recipients.
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling wall event: %v", err)
				continue
			}

			// Copy the client set so the send loop runs outside the lock.
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// The send buffer is full, so the client is lagging.
					// Drop it here rather than blocking the hub.
					logger.Sugar.Warnf("Client %s's send buffer is full. Dropping connection.", client.UserID)
					h.drop(client)
					client.Conn.Close()
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// ClientCount reports how many subscribers are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

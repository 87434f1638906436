package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/qinghao1/gojek/internal/core/domain"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LocationUpdater interface {
	UpdateLocation(ctx context.Context, id int, body []byte) (domain.DriverLocation, error)
}

// Hub tracks one streaming connection per driver and feeds their location
// updates into the location service.
type Hub struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	svc        LocationUpdater
	log        *zap.Logger
}

func NewHub(svc LocationUpdater, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		svc:        svc,
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				client.close()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("websocket hub stopped")
			return
		case client := <-h.register:
			h.mu.Lock()
			// A reconnecting driver replaces its stale connection.
			if prev, ok := h.clients[client.driverID]; ok {
				prev.close()
			}
			h.clients[client.driverID] = client
			h.mu.Unlock()
			h.log.Debug("driver connected", zap.Int("driver_id", client.driverID))
		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.driverID]; ok && cur == client {
				delete(h.clients, client.driverID)
				client.close()
			}
			h.mu.Unlock()
			h.log.Debug("driver disconnected", zap.Int("driver_id", client.driverID))
		}
	}
}

func (h *Hub) HandleMessage(ctx context.Context, client *Client, message []byte) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		h.log.Debug("invalid message from driver", zap.Int("driver_id", client.driverID), zap.Error(err))
		client.Send(outbound{Type: MsgError, Payload: AckPayload{Errors: []string{"Malformed message"}}})
		return
	}

	switch env.Type {
	case MsgLocationUpdate:
		var errs []string

		_, err := h.svc.UpdateLocation(ctx, client.driverID, env.Payload)
		var verr *domain.ValidationError
		switch {
		case err == nil:
		case errors.As(err, &verr):
			errs = verr.Errors
		case errors.Is(err, domain.ErrDriverNotFound):
			errs = []string{"Driver not found"}
		default:
			h.log.Error("failed to update location", zap.Int("driver_id", client.driverID), zap.Error(err))
			errs = []string{"Internal error"}
		}

		client.Send(NewLocationAck(errs))
	default:
		client.Send(outbound{Type: MsgError, Payload: AckPayload{Errors: []string{"Unknown message type"}}})
	}
}

// SendToDriver queues message for driverID. It reports false when the driver
// is not connected or its queue is full.
func (h *Hub) SendToDriver(driverID int, message any) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[driverID]
	if !ok {
		return false
	}
	return client.Send(message)
}

func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeDriver upgrades the request and streams messages for driverID until the
// connection drops.
func (h *Hub) ServeDriver(w http.ResponseWriter, r *http.Request, driverID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Int("driver_id", driverID), zap.Error(err))
		return
	}

	client := newClient(h, conn, driverID)
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

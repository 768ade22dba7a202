package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const broadcastBuffer = 256

type statusEvent struct {
	supervisorID uuid.UUID
	record       *domain.StatusRecord
}

// Hub routes status changes to the connections of the supervisor that owns the operator.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan statusEvent
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	stopOnce   sync.Once
	log        *logrus.Logger
	mu         sync.RWMutex
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan statusEvent, broadcastBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, set := range h.clients {
				for client := range set {
					client.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.supervisorID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.supervisorID] = set
			}
			set[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev statusEvent) {
	msg, err := NewMessage(MessageTypeStatusChanged, ev.record)
	if err != nil {
		h.log.WithError(err).Error("status feed: encode payload")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("status feed: encode message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[ev.supervisorID] {
		select {
		case client.send <- data:
		default:
			// Slow subscriber; drop it rather than stall the feed.
			h.log.WithField("supervisor_id", ev.supervisorID).Warn("status feed: dropping slow client")
			h.remove(client)
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.supervisorID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.supervisorID)
	}
	client.Close()
}

// PublishStatus queues record for supervisorID's subscribers. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) PublishStatus(supervisorID uuid.UUID, record *domain.StatusRecord) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- statusEvent{supervisorID: supervisorID, record: record}:
	default:
		h.log.WithField("supervisor_id", supervisorID).Warn("status feed: queue full, event dropped")
	}
}

// Subscribers returns the number of live connections for supervisorID.
func (h *Hub) Subscribers(supervisorID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[supervisorID])
}

// Stop shuts the hub down and closes every client. It blocks until Run exits.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

package handlers

import (
	"net/http"

	"github.com/dom/shift-monitor/internal/api/middleware"
	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader ws.Upgrader
	log      *logrus.Logger
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; an empty list
// allows any origin.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string, log *logrus.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
		log: log,
	}
}

// Handle subscribes the calling supervisor to its operators' status changes.
// It is mounted behind the supervisor gate.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

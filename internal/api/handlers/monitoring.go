package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dom/shift-monitor/internal/api/middleware"
	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const noRecordMessage = "Nenhum registro de monitoramento encontrado para este operador"

type MonitoringHandler struct {
	ledger *service.LedgerService
	errs   *ErrorWriter
}

func NewMonitoringHandler(ledger *service.LedgerService, errs *ErrorWriter) *MonitoringHandler {
	return &MonitoringHandler{ledger: ledger, errs: errs}
}

type RecordEventRequest struct {
	Type string `json:"tipo"`
}

type RecordEventResponse struct {
	Message string    `json:"message"`
	At      time.Time `json:"horario"`
}

type SetStatusRequest struct {
	Online *bool `json:"status_online"`
}

type SetStatusResponse struct {
	Message    string `json:"message"`
	OperatorID string `json:"operador_id"`
	Online     bool   `json:"status"`
}

// StatusResponse is a single operator's record. Message is set only when the
// record was synthesized.
type StatusResponse struct {
	*domain.StatusRecord
	State   domain.ShiftState `json:"estado"`
	Message string            `json:"mensagem,omitempty"`
}

// Record applies the calling operator's shift event.
func (h *MonitoringHandler) Record(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	event := domain.EventType(req.Type)
	_, at, err := h.ledger.RecordEvent(r.Context(), claims.UserID, event)
	if err != nil {
		h.errs.Write(w, r, "monitoramento.Record", err)
		return
	}

	respond.JSON(w, http.StatusOK, RecordEventResponse{
		Message: "Registro de " + event.String() + " realizado com sucesso",
		At:      at,
	})
}

// List returns every supervised operator with its status and timestamps.
func (h *MonitoringHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	statuses, err := h.ledger.ListStatuses(r.Context(), claims.UserID)
	if err != nil {
		h.errs.Write(w, r, "monitoramento.List", err)
		return
	}

	respond.JSON(w, http.StatusOK, statuses)
}

func (h *MonitoringHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	operatorID, err := operatorIDParam(r)
	if err != nil {
		h.errs.Write(w, r, "monitoramento.Get", err)
		return
	}

	view, err := h.ledger.GetStatus(r.Context(), claims.UserID, operatorID)
	if err != nil {
		h.errs.Write(w, r, "monitoramento.Get", err)
		return
	}

	resp := StatusResponse{StatusRecord: view.Record, State: view.Record.State()}
	if !view.Stored {
		resp.Message = noRecordMessage
	}
	respond.JSON(w, http.StatusOK, resp)
}

// SetStatus is the supervisor override of an operator's online flag.
func (h *MonitoringHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	operatorID, err := operatorIDParam(r)
	if err != nil {
		h.errs.Write(w, r, "monitoramento.SetStatus", err)
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if req.Online == nil {
		h.errs.Write(w, r, "monitoramento.SetStatus", domain.ErrMissingFields)
		return
	}

	record, err := h.ledger.SetStatus(r.Context(), claims.UserID, operatorID, *req.Online)
	if err != nil {
		h.errs.Write(w, r, "monitoramento.SetStatus", err)
		return
	}

	respond.JSON(w, http.StatusOK, SetStatusResponse{
		Message:    "Status atualizado com sucesso",
		OperatorID: record.OperatorID.String(),
		Online:     record.Online,
	})
}

// operatorIDParam parses the path id. A malformed id cannot name a supervised
// operator, so it is reported as not found.
func operatorIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "operadorId"))
	if err != nil {
		return uuid.Nil, domain.ErrOperatorNotFound
	}
	return id, nil
}

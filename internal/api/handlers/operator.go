package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/shift-monitor/internal/api/middleware"
	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/service"
)

type OperatorHandler struct {
	directory *service.DirectoryService
	errs      *ErrorWriter
}

func NewOperatorHandler(directory *service.DirectoryService, errs *ErrorWriter) *OperatorHandler {
	return &OperatorHandler{directory: directory, errs: errs}
}

// Create registers an operator under the calling supervisor.
func (h *OperatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	operator, err := h.directory.RegisterOperator(r.Context(), claims.UserID, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.Write(w, r, "operador.Create", err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]string{"operador_id": operator.ID.String()})
}

// List returns the calling supervisor's operators.
func (h *OperatorHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	operators, err := h.directory.ListOperators(r.Context(), claims.UserID)
	if err != nil {
		h.errs.Write(w, r, "operador.List", err)
		return
	}

	respond.JSON(w, http.StatusOK, operators)
}

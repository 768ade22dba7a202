package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/domain"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// ErrorWriter turns a service error into its HTTP status and a short message.
// Unexpected failures are logged; their detail is only sent when exposeDetail is set.
type ErrorWriter struct {
	log          *logrus.Logger
	exposeDetail bool
}

func NewErrorWriter(log *logrus.Logger, exposeDetail bool) *ErrorWriter {
	return &ErrorWriter{log: log, exposeDetail: exposeDetail}
}

func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, message := classify(err)
	if status != http.StatusInternalServerError {
		respond.Error(w, status, message)
		return
	}

	e.log.WithError(err).WithFields(logrus.Fields{
		"op":    op,
		"reqid": chiMiddleware.GetReqID(r.Context()),
	}).Error("request failed")

	body := respond.ErrorBody{Error: message}
	if e.exposeDetail {
		body.Detail = err.Error()
	}
	respond.JSON(w, status, body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Não autenticado"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Acesso negado"
	case errors.Is(err, domain.ErrOperatorNotFound):
		return http.StatusNotFound, "Operador não encontrado ou não está sob sua supervisão"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Não encontrado"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Credenciais inválidas"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email já cadastrado"
	case errors.Is(err, domain.ErrInvalidEvent):
		return http.StatusBadRequest, "Tipo de registro inválido"
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "Campos obrigatórios ausentes"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "Requisição inválida"
	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

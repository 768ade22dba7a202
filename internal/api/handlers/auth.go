package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dom/shift-monitor/internal/api/middleware"
	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	directory   *service.DirectoryService
	errs        *ErrorWriter
	// secureCookies sets the Secure attribute on session cookies.
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, directory *service.DirectoryService, errs *ErrorWriter, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		directory:     directory,
		errs:          errs,
		secureCookies: secureCookies,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	UserID      string `json:"userId"`
	AccessLevel string `json:"nivel_acesso"`
}

type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type MeResponse struct {
	UserID      string    `json:"userId"`
	AccessLevel string    `json:"nivel_acesso"`
	ExpiresAt   time.Time `json:"expira_em"`
}

func (h *AuthHandler) LoginOperator(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.AccessLevelOperator)
}

func (h *AuthHandler) LoginSupervisor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.AccessLevelSupervisor)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, level domain.AccessLevel) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		AccessLevel: level,
	})
	if err != nil {
		h.errs.Write(w, r, "auth.Login", err)
		return
	}

	maxAge := h.authService.TokenTTL()
	http.SetCookie(w, h.cookie(middleware.SessionCookieName, result.SessionID, maxAge))
	http.SetCookie(w, h.cookie(middleware.TokenCookieName, result.Token, maxAge))

	respond.JSON(w, http.StatusOK, LoginResponse{
		Message:     "Login realizado com sucesso",
		UserID:      result.User.ID.String(),
		AccessLevel: result.User.AccessLevel.String(),
	})
}

func (h *AuthHandler) RegisterSupervisor(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	user, err := h.directory.RegisterSupervisor(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.Write(w, r, "auth.RegisterSupervisor", err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]string{"supervisor_id": user.ID.String()})
}

// Logout drops the server-side session and expires both cookies. It succeeds
// without a session so a stale browser can always clear its cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.Logout(c.Value)
	}

	http.SetCookie(w, h.cookie(middleware.SessionCookieName, "", -1))
	http.SetCookie(w, h.cookie(middleware.TokenCookieName, "", -1))

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logout realizado com sucesso"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}

	respond.JSON(w, http.StatusOK, MeResponse{
		UserID:      claims.UserID.String(),
		AccessLevel: claims.AccessLevel.String(),
		ExpiresAt:   claims.ExpiresAt,
	})
}

func (h *AuthHandler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/auth"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
)

const (
	SessionCookieName = "sid"
	TokenCookieName   = "token"
)

// TokenValidator is what the gate needs from the auth service.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
	SessionToken(sessionID string) (string, bool)
}

// Auth is the authentication stage. It takes the token from the server-side
// session, the token cookie or an Authorization bearer header, in that order,
// verifies each until one passes and attaches its claims to the context.
func Auth(validator TokenValidator, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidates := tokenCandidates(r, validator)
			if len(candidates) == 0 {
				log.WithField("path", r.URL.Path).Debug("auth: no credentials")
				respond.Error(w, http.StatusUnauthorized, "Não autenticado")
				return
			}

			var firstErr error
			for _, token := range candidates {
				claims, err := validator.ValidateToken(token)
				if err == nil {
					ctx := context.WithValue(r.Context(), ClaimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				if firstErr == nil {
					firstErr = err
				}
			}

			log.WithError(firstErr).WithField("path", r.URL.Path).Info("auth: token rejected")
			respond.Error(w, http.StatusUnauthorized, "Token inválido ou expirado")
		})
	}
}

// RequireRole is the authorization stage. It must be mounted after Auth; a
// request without claims is treated as unauthenticated.
func RequireRole(level domain.AccessLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Não autenticado")
				return
			}

			if !allows(claims.AccessLevel, level) {
				respond.Error(w, http.StatusForbidden, "Acesso negado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allows(have, want domain.AccessLevel) bool {
	switch want {
	case domain.AccessLevelSupervisor:
		return have == domain.AccessLevelSupervisor
	case domain.AccessLevelOperator:
		return have == domain.AccessLevelOperator
	default:
		return false
	}
}

func tokenCandidates(r *http.Request, validator TokenValidator) []string {
	var tokens []string
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if token, ok := validator.SessionToken(c.Value); ok {
			tokens = append(tokens, token)
		}
	}
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			tokens = append(tokens, parts[1])
		}
	}
	return tokens
}

func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

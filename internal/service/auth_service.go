package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/shift-monitor/internal/auth"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/metrics"
	"github.com/dom/shift-monitor/internal/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
	codec    *auth.TokenCodec
	sessions *auth.SessionStore
	metrics  *metrics.Metrics
}

func NewAuthService(userRepo repository.UserRepository, codec *auth.TokenCodec, sessions *auth.SessionStore, m *metrics.Metrics) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
		sessions: sessions,
		metrics:  m,
	}
}

type LoginInput struct {
	Email    string
	Password string
	// AccessLevel is the role the login route admits.
	AccessLevel domain.AccessLevel
}

type AuthResult struct {
	User      *domain.User
	Token     string
	SessionID string
}

// Login checks credentials for a user holding the route's access level and
// mints a session. Unknown email, wrong password and wrong role are all
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	result, err := s.login(ctx, input)
	switch {
	case err == nil:
		s.metrics.Login(input.AccessLevel.String(), "success")
	case errors.Is(err, domain.ErrInvalidCredentials):
		s.metrics.Login(input.AccessLevel.String(), "invalid_credentials")
	default:
		s.metrics.Login(input.AccessLevel.String(), "error")
	}
	return result, err
}

func (s *AuthService) login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.AccessLevel != input.AccessLevel {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, domain.Upstream("auth.Login", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.AccessLevel)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		SessionID: s.sessions.Create(token),
	}, nil
}

// ValidateToken verifies a token and returns its claims.
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	return s.codec.Verify(token)
}

// SessionToken returns the token held by a server-side session.
func (s *AuthService) SessionToken(sessionID string) (string, bool) {
	return s.sessions.Token(sessionID)
}

func (s *AuthService) Logout(sessionID string) {
	if sessionID != "" {
		s.sessions.Delete(sessionID)
	}
}

func (s *AuthService) TokenTTL() int {
	return int(s.codec.TTL().Seconds())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name         string
	email        string
	password     string
	accessLevel  domain.AccessLevel
	supervisorID *uuid.UUID
}

// NewUserBuilder creates a new UserBuilder for a supervisor with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:        fmt.Sprintf("testuser_%s", suffix),
		email:       fmt.Sprintf("user_%s@example.com", suffix),
		password:    "testpassword123",
		accessLevel: domain.AccessLevelSupervisor,
	}
}

// WithName sets the name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// AsOperatorOf makes the user an operator supervised by supervisor
func (b *UserBuilder) AsOperatorOf(supervisor *domain.User) *UserBuilder {
	b.accessLevel = domain.AccessLevelOperator
	b.supervisorID = &supervisor.ID
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	// MinCost keeps fixtures fast; verification is cost-agnostic.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		AccessLevel:  b.accessLevel,
		SupervisorID: b.supervisorID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user and logs in through the API, returning the
// user and a client carrying the session cookies
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *Session) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	return user, Login(t, ts, user.AccessLevel, user.Email, password)
}

// LoginResponse matches the API login response
type LoginResponse struct {
	Message     string `json:"message"`
	UserID      string `json:"userId"`
	AccessLevel string `json:"nivel_acesso"`
}

// Session is an authenticated caller: the cookies set at login plus the raw token
type Session struct {
	Cookies []*http.Cookie
	Token   string
}

// Cookie returns the named cookie from the login response, or nil
func (s *Session) Cookie(name string) *http.Cookie {
	for _, c := range s.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Login posts credentials to the login route for level and fails the test on
// anything but 200
func Login(t *testing.T, ts *TestServer, level domain.AccessLevel, email, password string) *Session {
	t.Helper()

	path := "/auth/login-supervisor"
	if level == domain.AccessLevelOperator {
		path = "/auth/login-operador"
	}

	body, _ := json.Marshal(map[string]string{"email": email, "senha": password})
	resp, err := http.Post(ts.URL(path), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	session := &Session{Cookies: resp.Cookies()}
	if c := session.Cookie("token"); c != nil {
		session.Token = c.Value
	}
	return session
}

// CreateRequest creates a JSON request; session may be nil
func CreateRequest(t *testing.T, method, url string, body interface{}, session *Session) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		for _, c := range session.Cookies {
			req.AddCookie(c)
		}
	}

	return req
}

// CreateBearerRequest creates a JSON request authenticated only by an Authorization header
func CreateBearerRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	req := CreateRequest(t, method, url, body, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Do sends req and fails the test on transport errors
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

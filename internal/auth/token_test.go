package auth_test

import (
	"testing"
	"time"

	"github.com/dom/shift-monitor/internal/auth"
	"github.com/dom/shift-monitor/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key-for-testing-only"

func TestTokenCodec_IssueVerify(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, 8*time.Hour)

	for _, level := range domain.AllAccessLevels {
		t.Run(level.String(), func(t *testing.T) {
			userID := uuid.New()
			token, err := codec.Issue(userID, level)
			require.NoError(t, err)

			claims, err := codec.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, level, claims.AccessLevel)
			assert.WithinDuration(t, claims.IssuedAt.Add(8*time.Hour), claims.ExpiresAt, time.Second)
		})
	}
}

func TestTokenCodec_IssueRejectsUnknownLevel(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)

	_, err := codec.Issue(uuid.New(), domain.AccessLevel("admin"))
	assert.Error(t, err)
}

func TestTokenCodec_Verify(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	userID := uuid.New()

	valid, err := codec.Issue(userID, domain.AccessLevelOperator)
	require.NoError(t, err)

	otherSecret, err := auth.NewTokenCodec("another-secret", time.Hour).Issue(userID, domain.AccessLevelOperator)
	require.NoError(t, err)

	past := codec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, err := past.Issue(userID, domain.AccessLevelSupervisor)
	require.NoError(t, err)

	expiredOtherSecret, err := auth.NewTokenCodec("another-secret", time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(userID, domain.AccessLevelSupervisor)
	require.NoError(t, err)

	badLevel, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          userID.String(),
		"nivel_acesso": "admin",
		"exp":          time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          userID.String(),
		"nivel_acesso": "operador",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          "not-a-uuid",
		"nivel_acesso": "operador",
		"exp":          time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: valid},
		{name: "empty token", token: "", wantErr: auth.ErrTokenMalformed},
		{name: "malformed token", token: "notavalidjwt", wantErr: auth.ErrTokenMalformed},
		{name: "garbage segments", token: "invalid.token.here", wantErr: auth.ErrTokenMalformed},
		{name: "signed with another secret", token: otherSecret, wantErr: auth.ErrTokenSignature},
		{name: "expired", token: expired, wantErr: auth.ErrTokenExpired},
		{name: "expired and signed with another secret", token: expiredOtherSecret, wantErr: domain.ErrNotAuthenticated},
		{name: "unknown access level", token: badLevel, wantErr: auth.ErrTokenMalformed},
		{name: "missing expiry", token: noExpiry, wantErr: auth.ErrTokenMalformed},
		{name: "bad subject", token: badSubject, wantErr: auth.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, domain.AccessLevelOperator, claims.AccessLevel)
		})
	}
}

func TestTokenCodec_RotatedSecretInvalidatesTokens(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewTokenCodec("first-secret", time.Hour).Issue(userID, domain.AccessLevelSupervisor)
	require.NoError(t, err)

	_, err = auth.NewTokenCodec("second-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenSignature)
}

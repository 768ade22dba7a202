package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/shift-monitor/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Check(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.Do(t, testutil.CreateRequest(t, http.MethodGet, ts.URL("/health"), nil, nil))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body map[string]string
	testutil.AssertJSONResponse(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, "ok", body["database"])
}

func TestStoreGate_BlocksWhenUnavailable(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Gate.SetReady(false)

	resp := testutil.Do(t, testutil.CreateRequest(t, http.MethodPost, ts.URL("/auth/login-supervisor"),
		map[string]string{"email": "a@x.com", "senha": "pw"}, nil))
	testutil.AssertErrorResponse(t, resp, http.StatusInternalServerError, "Banco de dados indisponível")

	// Health stays outside the gate
	resp = testutil.Do(t, testutil.CreateRequest(t, http.MethodGet, ts.URL("/health"), nil, nil))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

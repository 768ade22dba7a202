package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	supervisor, session := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	req := testutil.CreateRequest(t, http.MethodPost, ts.URL("/operador/cadastrar"), map[string]string{
		"nome":  "Bruno",
		"email": "bruno@example.com",
		"senha": "password123",
	}, session)
	resp := testutil.Do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var body map[string]string
	testutil.AssertJSONResponse(t, resp, &body)
	require.NotEmpty(t, body["operador_id"])

	var operator domain.User
	require.NoError(t, ts.DB.DB.First(&operator, "id = ?", body["operador_id"]).Error)
	assert.Equal(t, domain.AccessLevelOperator, operator.AccessLevel)
	require.NotNil(t, operator.SupervisorID)
	assert.Equal(t, supervisor.ID, *operator.SupervisorID)

	// Same email again
	resp = testutil.Do(t, testutil.CreateRequest(t, http.MethodPost, ts.URL("/operador/cadastrar"), map[string]string{
		"nome":  "Bruno 2",
		"email": "bruno@example.com",
		"senha": "password123",
	}, session))
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Email já cadastrado")
}

func TestOperatorHandler_RequiresSupervisor(t *testing.T) {
	ts := testutil.NewTestServer(t)

	supervisor, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	_, opSession := testutil.NewUserBuilder().AsOperatorOf(supervisor).BuildAndLogin(t, ts)

	resp := testutil.Do(t, testutil.CreateRequest(t, http.MethodGet, ts.URL("/operador/list"), nil, opSession))
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Acesso negado")

	resp = testutil.Do(t, testutil.CreateRequest(t, http.MethodGet, ts.URL("/operador/list"), nil, nil))
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Não autenticado")
}

func TestOperatorHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	supervisor, session := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	other, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	testutil.NewUserBuilder().WithName("Bruno").AsOperatorOf(supervisor).Build(t, ts.DB.DB)
	testutil.NewUserBuilder().WithName("Alheio").AsOperatorOf(other).Build(t, ts.DB.DB)

	resp := testutil.Do(t, testutil.CreateRequest(t, http.MethodGet, ts.URL("/operador/list"), nil, session))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var operators []domain.OperatorSummary
	testutil.AssertJSONResponse(t, resp, &operators)
	require.Len(t, operators, 1)
	assert.Equal(t, "Bruno", operators[0].Name)
	assert.False(t, operators[0].Online)
}

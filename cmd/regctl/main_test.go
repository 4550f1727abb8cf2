package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration/internal/handler"
	"registration/internal/student"
	"registration/internal/testutil"
)

func newServer(t *testing.T) (*httptest.Server, *student.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := student.NewService(student.NewRepository(testutil.NewStore(t)), nil, nil)
	h := handler.New(svc, nil, nil, handler.TokenIssuer{})
	srv := httptest.NewServer(handler.NewRouter(h, handler.RouterConfig{}))
	t.Cleanup(srv.Close)
	return srv, svc
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRegisterListUpdateDelete(t *testing.T) {
	srv, svc := newServer(t)

	out, err := run(t, srv.URL, "register",
		"--first-name", "Ann", "--last-name", "Lee", "--email", "ann@x.io",
		"--dob", "15/01/2001", "--roll-number", "R1")
	require.NoError(t, err)
	assert.Contains(t, out, "registered student 1")

	out, err = run(t, srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann Lee")
	assert.Contains(t, out, "15/01/2001")

	out, err = run(t, srv.URL, "update", "1", "--last-name", "Park")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann Park")

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Park", got[0].LastName)
	assert.Equal(t, "ann@x.io", got[0].Email)
	assert.Equal(t, student.Date("2001-01-15"), got[0].DOB)

	out, err = run(t, srv.URL, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "no students registered")
}

func TestRegister_ValidationStopsBeforeRequest(t *testing.T) {
	srv, svc := newServer(t)

	_, err := run(t, srv.URL, "register",
		"--first-name", "Ann", "--last-name", "Lee", "--email", "not-an-email",
		"--dob", "2001-01-15", "--roll-number", "R1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email format")

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdate_UnknownID(t *testing.T) {
	srv, _ := newServer(t)

	_, err := run(t, srv.URL, "update", "42", "--last-name", "Park")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDelete_RejectsIDsTheServerRejects(t *testing.T) {
	for _, arg := range []string{"abc", "0", "1.5"} {
		_, err := run(t, "http://127.0.0.1:0", "delete", arg)
		require.Error(t, err, arg)
		assert.ErrorIs(t, err, student.ErrInvalidID, arg)
	}
}

func TestToken_DisabledServer(t *testing.T) {
	srv, _ := newServer(t)

	_, err := run(t, srv.URL, "token", "--api-key", "whatever")
	require.Error(t, err)
}

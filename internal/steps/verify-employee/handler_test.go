package verifyemployee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"visitor-registration/internal/common/config"
	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

type fakeVerifier struct {
	server *httptest.Server
	calls  int32
	lastID atomic.Value
}

func newFakeVerifier(t *testing.T, status int, body string) *fakeVerifier {
	t.Helper()
	f := &fakeVerifier{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.calls, 1)
		f.lastID.Store(r.URL.Query().Get("emp_id"))
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestHandler(t *testing.T, url string) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{URL: url},
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func newScope() (*session.Scope, session.Store) {
	store := session.NewMemoryStore(30 * time.Minute)
	return session.NewScope(store, "sess-1"), store
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_Success(t *testing.T) {
	verifier := newFakeVerifier(t, http.StatusOK,
		`{"employee":{"id":1042,"emp_id":"EMP-1042","metadata":{"email":"host@example.com"}}}`)
	h := newTestHandler(t, verifier.server.URL+"/api/employees/verify")
	scope, store := newScope()

	output, err := h.Execute(context.Background(), scope, &Input{EmployeeID: "  EMP-1042 "})
	require.NoError(t, err)

	assert.Equal(t, "EMP-1042", verifier.lastID.Load())
	assert.Equal(t, "EMP-1042", output.Identity.EmployeeID)
	assert.Equal(t, int64(1042), output.Identity.NumericID)

	stored, err := store.LoadIdentity(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "EMP-1042", stored.EmployeeID)
	assert.Equal(t, "host@example.com", stored.Profile.Email())
}

func TestExecute_QueryIsEncoded(t *testing.T) {
	verifier := newFakeVerifier(t, http.StatusOK, `{"employee":{"id":"7"}}`)
	h := newTestHandler(t, verifier.server.URL+"?source=kiosk")
	scope, _ := newScope()

	_, err := h.Execute(context.Background(), scope, &Input{EmployeeID: "A&B 7"})
	require.NoError(t, err)
	assert.Equal(t, "A&B 7", verifier.lastID.Load())
}

func TestExecute_EmptyIdentifierMakesNoCall(t *testing.T) {
	verifier := newFakeVerifier(t, http.StatusOK, `{"employee":{"id":1}}`)
	h := newTestHandler(t, verifier.server.URL)
	scope, _ := newScope()

	for _, id := range []string{"", "   ", "\t\n"} {
		_, err := h.Execute(context.Background(), scope, &Input{EmployeeID: id})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyIdentifier))
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&verifier.calls))
}

func TestExecute_Outcomes(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		expectedCode errors.ErrorCode
		expectedMsg  string
	}{
		{
			name:         "rejected with reason",
			status:       http.StatusOK,
			body:         `{"error":"not found"}`,
			expectedCode: errors.ErrCodeVerificationRejected,
			expectedMsg:  "not found",
		},
		{
			name:         "error takes precedence over employee",
			status:       http.StatusOK,
			body:         `{"employee":{"id":1},"error":"inactive employee"}`,
			expectedCode: errors.ErrCodeVerificationRejected,
			expectedMsg:  "inactive employee",
		},
		{
			name:         "error on non-2xx is still a rejection",
			status:       http.StatusNotFound,
			body:         `{"error":"not found"}`,
			expectedCode: errors.ErrCodeVerificationRejected,
			expectedMsg:  "not found",
		},
		{
			name:         "neither employee nor error",
			status:       http.StatusOK,
			body:         `{}`,
			expectedCode: errors.ErrCodeVerificationMalformedResponse,
		},
		{
			name:         "unparseable body",
			status:       http.StatusOK,
			body:         `<html>gateway</html>`,
			expectedCode: errors.ErrCodeVerificationUnreachable,
		},
		{
			name:         "server error without error field",
			status:       http.StatusInternalServerError,
			body:         `{"employee":null}`,
			expectedCode: errors.ErrCodeVerificationUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newFakeVerifier(t, tt.status, tt.body)
			h := newTestHandler(t, verifier.server.URL)
			scope, store := newScope()

			_, err := h.Execute(context.Background(), scope, &Input{EmployeeID: "EMP-12345"})
			require.Error(t, err)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, stdErr.Message)
			}

			stored, err := store.LoadIdentity(context.Background(), "sess-1")
			require.NoError(t, err)
			assert.Nil(t, stored, "no session write on failure")
			assert.Equal(t, int32(1), atomic.LoadInt32(&verifier.calls), "exactly one attempt")
		})
	}
}

func TestExecute_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	h := newTestHandler(t, url)
	scope, _ := newScope()

	_, err := h.Execute(context.Background(), scope, &Input{EmployeeID: "EMP-1"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeVerificationUnreachable))
}

// ==========================
// Config Tests
// ==========================

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{}
	appCfg.APIs.Verification.URL = "http://verify.local/employees"
	appCfg.APIs.Verification.Timeout = 2500

	cfg := createConfigFromAppConfig(appCfg, nil)
	assert.Equal(t, "http://verify.local/employees", cfg.URL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)

	appCfg.APIs.Verification.Timeout = 0
	cfg = createConfigFromAppConfig(appCfg, nil)
	assert.Equal(t, time.Duration(0), cfg.Timeout)

	custom := &Config{URL: "http://custom"}
	assert.Same(t, custom, createConfigFromAppConfig(appCfg, custom))
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{URL: "/relative"}).Validate())
	assert.Error(t, (&Config{URL: "http://v", Timeout: -1}).Validate())
	assert.NoError(t, (&Config{URL: "http://v"}).Validate())

	_, err := NewHandler(HandlerOptions{CustomConfig: &Config{}})
	assert.Error(t, err)
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoWithContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EMP-1", r.URL.Query().Get("emp_id"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(0)
	req, err := http.NewRequest(http.MethodGet, server.URL+"?emp_id=EMP-1", nil)
	require.NoError(t, err)

	resp, err := client.DoWithContext(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	_, err = NewClient(0).Do(req)
	assert.Error(t, err)
}

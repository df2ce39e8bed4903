package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient("localhost:8080", 3*time.Second)
	require.NotNil(t, client)
	require.NotNil(t, client.Client)

	assert.Equal(t, "http://localhost:8080", client.BaseURL)
	assert.Equal(t, 3*time.Second, client.GetClient().Timeout)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient("a:1", 0)
	client2 := NewHTTPClient("a:1", 0)

	assert.NotSame(t, client1.Client, client2.Client)
}

func TestHTTPClient_SendsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"version":"1.0.0"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Second)
	resp, err := client.R().Get("/api/version")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"version":"1.0.0"}`, resp.String())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                       "",
		"localhost:8080":         "http://localhost:8080",
		"http://localhost:8080/": "http://localhost:8080",
		"https://ledger.example": "https://ledger.example",
		"  10.0.0.1:80  ":        "http://10.0.0.1:80",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeBaseURL(in), in)
	}
}

package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_FetchRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"SEK":11.23,"USD":1.08}}`))
	}))
	t.Cleanup(srv.Close)

	provider := NewHTTPProvider(srv.URL, "SEK", time.Second)

	rate, err := provider.FetchRate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 11.23, rate, 1e-9)
}

func TestHTTPProvider_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"USD":1.08}}`))
	}))
	t.Cleanup(srv.Close)

	provider := NewHTTPProvider(srv.URL, "SEK", time.Second)

	_, err := provider.FetchRate(context.Background())
	assert.Error(t, err)
}

func TestHTTPProvider_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	provider := NewHTTPProvider(srv.URL, "SEK", time.Second)

	_, err := provider.FetchRate(context.Background())
	assert.Error(t, err)
}

func TestHTTPProvider_NonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"SEK":0}}`))
	}))
	t.Cleanup(srv.Close)

	provider := NewHTTPProvider(srv.URL, "SEK", time.Second)

	_, err := provider.FetchRate(context.Background())
	assert.Error(t, err)
}

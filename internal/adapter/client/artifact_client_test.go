package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(maxRetries int) *ArtifactClient {
	c := NewArtifactClient(5*time.Second, maxRetries, nil)
	c.newBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}
	return c
}

func TestArtifactClient_Fetch(t *testing.T) {
	t.Run("successful download", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/05_nb.json", r.URL.Path)
			assert.Equal(t, "GET", r.Method)
			_, err := w.Write([]byte(`{"kind":"multinomial_nb"}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := newTestClient(2)
		data, err := client.Fetch(context.Background(), server.URL+"/models/05_nb.json")

		require.NoError(t, err)
		assert.Equal(t, `{"kind":"multinomial_nb"}`, string(data))
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, err := w.Write([]byte("ok"))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := newTestClient(3)
		data, err := client.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "ok", string(data))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(2)
		_, err := client.Fetch(context.Background(), server.URL)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(5)
		_, err := client.Fetch(context.Background(), server.URL)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("connection error", func(t *testing.T) {
		client := newTestClient(0)
		_, err := client.Fetch(context.Background(), "http://localhost:99999")

		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(10)
		_, err := client.Fetch(ctx, server.URL)

		assert.Error(t, err)
	})
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"towdash/internal/config"
	"towdash/internal/models"
	"towdash/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return New(&config.ClientConfig{
		BaseURL:          baseURL,
		BootstrapTimeout: timeout,
	}, logger.NewNop())
}

func envelope(data interface{}) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"status": "success",
		"data":   data,
	})
	return b
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Server Payload", func(t *testing.T) {
		want := models.FallbackDashboard()
		want.Dispatch.TicketID = "T-9999"

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/tows/tow-1-test/dashboard", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write(envelope(want))
		}))
		defer server.Close()

		payload := newTestClient(server.URL, time.Second).Bootstrap(ctx, "tow-1-test")
		assert.Equal(t, "T-9999", payload.Dispatch.TicketID)
	})

	t.Run("Falls Back On Non 2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"status":"error","error":{"code":"INTERNAL_ERROR","message":"boom"}}`))
		}))
		defer server.Close()

		payload := newTestClient(server.URL, time.Second).Bootstrap(ctx, "tow-1-test")
		assert.Equal(t, models.FallbackDashboard(), payload)
	})

	t.Run("Falls Back On Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write(envelope(models.TemplatePayload()))
		}))
		defer server.Close()

		payload := newTestClient(server.URL, 20*time.Millisecond).Bootstrap(ctx, "tow-1-test")
		assert.Equal(t, models.FallbackDashboard(), payload)
	})

	t.Run("Falls Back On Unreachable Server", func(t *testing.T) {
		payload := newTestClient("http://127.0.0.1:1", 100*time.Millisecond).Bootstrap(ctx, "tow-1-test")
		assert.Equal(t, models.FallbackDashboard(), payload)
	})
}

func TestMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("AdvanceStatus Sends Target Label", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v1/tows/tow-1-test/status", r.URL.Path)

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "En Route", body["status"])

			w.Write(envelope(nil))
		}))
		defer server.Close()

		err := newTestClient(server.URL, time.Second).AdvanceStatus(ctx, "tow-1-test", "En Route")
		assert.NoError(t, err)
	})

	t.Run("AdvanceNext Sends Advance Signal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, true, body["advance"])

			w.Write(envelope(nil))
		}))
		defer server.Close()

		err := newTestClient(server.URL, time.Second).AdvanceNext(ctx, "tow-1-test")
		assert.NoError(t, err)
	})

	t.Run("Server Error Propagates With Code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"status":"error","error":{"code":"CONFLICT","message":"Tow was modified concurrently"}}`))
		}))
		defer server.Close()

		err := newTestClient(server.URL, time.Second).AdvanceStatus(ctx, "tow-1-test", "En Route")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "CONFLICT")
	})

	t.Run("AddNote Decodes Created Note", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write(envelope(models.Note{ID: "n-1", Text: "Keys under mat", Author: "M. Webb"}))
		}))
		defer server.Close()

		note, err := newTestClient(server.URL, time.Second).AddNote(ctx, "tow-1-test", "Keys under mat", "M. Webb")
		assert.NoError(t, err)
		assert.Equal(t, "n-1", note.ID)
	})
}

// TestOptimisticStatusRoundTrip exercises the controller against a real
// HTTP round trip: a rejected transition leaves the displayed status at
// its pre-call value.
func TestOptimisticStatusRoundTrip(t *testing.T) {
	ctx := context.Background()

	rejected := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rejected {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"status":"error","error":{"code":"CONFLICT","message":"stale"}}`))
			return
		}
		w.Write(envelope(nil))
	}))
	defer server.Close()

	apiClient := newTestClient(server.URL, time.Second)
	status := NewOptimistic("Dispatched")

	perform := func(ctx context.Context, v string) error {
		return apiClient.AdvanceStatus(ctx, "tow-1-test", v)
	}

	ok := status.Update(ctx, "En Route", perform)
	assert.False(t, ok)
	assert.Equal(t, "Dispatched", status.Value())
	assert.Error(t, status.Err())

	rejected = false
	ok = status.Update(ctx, "En Route", perform)
	assert.True(t, ok)
	assert.Equal(t, "En Route", status.Value())
	assert.NoError(t, status.Err())
}

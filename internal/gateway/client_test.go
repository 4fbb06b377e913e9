package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"zapdash/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(&logging.LogConfig{
		File:       filepath.Join(t.TempDir(), "test.log"),
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestFetchInstances(t *testing.T) {
	t.Run("returns instances with admin token header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/instance/all", r.URL.Path)
			assert.Equal(t, "admin-secret", r.Header.Get("admintoken"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"name":"sales1","status":"open"},{"instance":{"instanceName":"sales2","status":"close"}}]`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		instances := client.FetchInstances(context.Background())

		require.Len(t, instances, 2)
		assert.Equal(t, "sales1", instances[0].Name())
		assert.Equal(t, "open", instances[0].Status())
		assert.Equal(t, "sales2", instances[1].Name())
	})

	t.Run("server error yields empty list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		assert.Empty(t, client.FetchInstances(context.Background()))
	})

	t.Run("unreachable gateway yields empty list", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "admin-secret", testLogger(t))
		assert.Empty(t, client.FetchInstances(context.Background()))
	})
}

func TestCreateInstance(t *testing.T) {
	t.Run("posts name and decodes response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/instance/init", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "admin-secret", r.Header.Get("admintoken"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"sales1","token":"tok-123"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		resp, err := client.CreateInstance(context.Background(), "sales1")
		require.NoError(t, err)

		token, ok := ExtractCreateToken(resp)
		require.True(t, ok)
		assert.Equal(t, "tok-123", token)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("name already in use"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		_, err := client.CreateInstance(context.Background(), "sales1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name already in use")
	})
}

func TestConnectInstance(t *testing.T) {
	t.Run("uses per-instance token header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/instance/connect", r.URL.Path)
			assert.Equal(t, "tok-123", r.Header.Get("token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"qrcode":"QR-DATA"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		resp, err := client.ConnectInstance(context.Background(), "tok-123", "")
		require.NoError(t, err)

		m, ok := resp.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "QR-DATA", m["qrcode"])
	})

	t.Run("rate limit surfaces as error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("too many connect attempts"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		_, err := client.ConnectInstance(context.Background(), "tok-123", "+5511999999999")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}

func TestGetInstanceStatus(t *testing.T) {
	t.Run("returns decoded payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/instance/status", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"instance":{"status":"open"}}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		status := client.GetInstanceStatus(context.Background(), "tok-123")
		require.NotNil(t, status)
		assert.Equal(t, "open", NewInstance(status).Status())
	})

	t.Run("failure yields nil, not error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		assert.Nil(t, client.GetInstanceStatus(context.Background(), "tok-123"))
	})
}

func TestLogoutInstance(t *testing.T) {
	t.Run("failure is swallowed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/instance/disconnect", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		// Must not panic or block; errors go to the log only.
		client.LogoutInstance(context.Background(), "tok-123")
	})
}

func TestDeleteInstance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "tok-123", r.Header.Get("token"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "admin-secret", testLogger(t))
	assert.NoError(t, client.DeleteInstance(context.Background(), "tok-123"))
}

func TestWebhookRoundTrip(t *testing.T) {
	t.Run("set webhook posts wire format", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/webhook", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"url":"https://hooks.example.com/wa","enabled":true}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		resp, err := client.SetWebhook(context.Background(), "tok-123", WebhookConfig{
			URL:     "https://hooks.example.com/wa",
			Enabled: true,
			Events:  []string{"messages"},
		})
		require.NoError(t, err)
		assert.NotNil(t, resp)
	})

	t.Run("find webhook failure yields nil", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "admin-secret", testLogger(t))
		assert.Nil(t, client.FindWebhook(context.Background(), "tok-123"))
	})
}

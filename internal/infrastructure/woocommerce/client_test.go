package woocommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/syncing"
)

func testCredentials(storeURL string) *syncing.Credentials {
	return syncing.NewCredentials(uuid.New(), storeURL, "ck_test", "cs_test")
}

func TestClient_Probe(t *testing.T) {
	t.Run("reachable store", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "ck_test", user)
			assert.Equal(t, "cs_test", pass)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id": 1}]`))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", zap.NewNop())
		err := client.Probe(context.Background(), testCredentials(server.URL))
		assert.NoError(t, err)
	})

	t.Run("authentication rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", zap.NewNop())
		err := client.Probe(context.Background(), testCredentials(server.URL))
		assert.ErrorIs(t, err, syncing.ErrConnectivity)
	})

	t.Run("unreachable store", func(t *testing.T) {
		client := NewClient(time.Second, "", zap.NewNop())
		err := client.Probe(context.Background(), testCredentials("http://127.0.0.1:1"))
		assert.ErrorIs(t, err, syncing.ErrConnectivity)
	})

	t.Run("non-json body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", zap.NewNop())
		err := client.Probe(context.Background(), testCredentials(server.URL))
		assert.ErrorIs(t, err, syncing.ErrConnectivity)
	})
}

func TestClient_FetchOrders(t *testing.T) {
	watermark := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns decoded page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "3", r.URL.Query().Get("page"))
			assert.Equal(t, "2024-03-01T00:00:00", r.URL.Query().Get("modified_after"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 101, "status": "processing", "total": "10.00"},
				{"id": 102, "status": "completed", "total": "20.00"},
			})
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", zap.NewNop())
		orders := client.FetchOrders(context.Background(), testCredentials(server.URL), FetchOptions{
			Page:          3,
			PerPage:       100,
			ModifiedAfter: watermark,
		})

		require.Len(t, orders, 2)
		assert.Equal(t, int64(101), orders[0].ID)
		assert.Equal(t, "completed", orders[1].Status)
	})

	t.Run("server error yields empty page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", zap.NewNop())
		orders := client.FetchOrders(context.Background(), testCredentials(server.URL), FetchOptions{
			Page: 1, PerPage: 100, ModifiedAfter: watermark,
		})
		assert.Empty(t, orders)
	})

	t.Run("malformed body yields empty page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"}`))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "", zap.NewNop())
		orders := client.FetchOrders(context.Background(), testCredentials(server.URL), FetchOptions{
			Page: 1, PerPage: 100, ModifiedAfter: watermark,
		})
		assert.Empty(t, orders)
	})

	t.Run("unreachable store yields empty page", func(t *testing.T) {
		client := NewClient(time.Second, "", zap.NewNop())
		orders := client.FetchOrders(context.Background(), testCredentials("http://127.0.0.1:1"), FetchOptions{
			Page: 1, PerPage: 100, ModifiedAfter: watermark,
		})
		assert.Empty(t, orders)
	})
}

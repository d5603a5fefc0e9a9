package derma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalab/derma/internal/api"
	"github.com/dermalab/derma/internal/core/config"
	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/data/db"
	"github.com/dermalab/derma/internal/data/stores"
)

func newTestApp(t *testing.T, handler http.Handler) *App {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	jar, err := api.OpenJar(filepath.Join(dir, "cookies.json"))
	require.NoError(t, err)

	database, err := db.Open(dir, db.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	bus := notify.NewBus()
	client := api.NewClient(srv.URL, jar, bus, zerolog.Nop())

	return NewApp(client, bus, &cfg, stores.NewHistoryStore(database), zerolog.Nop())
}

func TestLoadDashboard_fetches_profile_and_history(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			_, _ = w.Write([]byte(`{"id": 1, "full_name": "Ada", "email": "a@b.com"}`))
		case "/api/history/":
			_, _ = w.Write([]byte(`[{"id": 2, "disease": "Ringworm", "confidence": 60, "timestamp": 1700000000}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	dash, err := app.LoadDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ada", dash.User.FullName)
	require.Len(t, dash.History, 1)
	assert.Equal(t, "Ringworm", dash.History[0].Disease)

	// The fetch refreshed the local mirror.
	cached, err := app.CachedHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, int64(2), cached[0].ID)
}

func TestLoadDashboard_auth_failure_is_fatal(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Missing cookie access_token_cookie"}`))
	}))

	_, err := app.LoadDashboard(context.Background())
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestDeleteRecord_refetches_only_on_success(t *testing.T) {
	var fetches atomic.Int64
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "History item not found or you do not have permission to delete it."}`))
		case r.URL.Path == "/api/history/":
			fetches.Add(1)
			_, _ = w.Write([]byte(`[]`))
		}
	}))

	_, err := app.DeleteRecord(context.Background(), 99)
	require.Error(t, err)
	assert.Zero(t, fetches.Load(), "failed delete must not refetch")
}

func TestDeleteRecord_success_returns_fresh_list(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"message": "History item deleted successfully."}`))
		case r.URL.Path == "/api/history/":
			_, _ = w.Write([]byte(`[{"id": 3, "disease": "Impetigo", "confidence": 40, "timestamp": 1700000100}]`))
		}
	}))

	records, err := app.DeleteRecord(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(3), records[0].ID)
}

func TestCachedHistory_without_cache_is_empty(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	app.Cache = nil

	records, err := app.CachedHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

package profiler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	s := New(0)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func TestProfiler_binds_loopback_only(t *testing.T) {
	s := startServer(t)

	assert.True(t, strings.HasPrefix(s.Addr(), "127.0.0.1:"),
		"profiler must not listen on external interfaces, got %s", s.Addr())
}

func TestProfiler_serves_pprof_handlers(t *testing.T) {
	s := startServer(t)
	base := "http://" + s.Addr()

	for _, endpoint := range []string{
		"/debug/pprof/",
		"/debug/pprof/cmdline",
		"/debug/pprof/symbol",
	} {
		resp, err := http.Get(base + endpoint)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", endpoint)
	}
}

func TestProfiler_shutdown_stops_serving(t *testing.T) {
	s := startServer(t)
	addr := s.Addr()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, err := http.Get("http://" + addr + "/debug/pprof/")
	assert.Error(t, err, "requests after shutdown must be refused")
}

func TestProfiler_shutdown_before_start_is_noop(t *testing.T) {
	s := New(0)

	assert.NoError(t, s.Shutdown(context.Background()))
}

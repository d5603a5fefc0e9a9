// Package profiler provides an optional pprof HTTP endpoint for
// debugging long-running TUI sessions.
package profiler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

// Server hosts the pprof handlers on a local port.
type Server struct {
	port   int
	srv    *http.Server
	listen net.Listener
}

// New creates a profiler server. Port 0 picks a random free port.
func New(port int) *Server {
	return &Server{port: port}
}

// Start begins serving in the background. It returns once the listener
// is bound so Addr() is valid immediately after.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("bind profiler port: %w", err)
	}
	s.listen = ln

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = s.srv.Serve(ln)
	}()

	return nil
}

// Addr returns the bound address, valid after Start.
func (s *Server) Addr() string {
	if s.listen == nil {
		return ""
	}
	return s.listen.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

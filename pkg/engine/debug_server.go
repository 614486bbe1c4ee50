package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugServer serves frame tree snapshots and metrics over HTTP.
//
// The engine is single-threaded, so handlers never touch it. The owning
// goroutine publishes snapshots between steps and handlers serve the latest.
type DebugServer struct {
	gatherer prometheus.Gatherer
	latest   atomic.Pointer[TreeSnapshot]
	trace    *StepTraceBuffer

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewDebugServer returns a server exposing metrics from g (nil disables
// /metrics).
func NewDebugServer(g prometheus.Gatherer) *DebugServer {
	return &DebugServer{gatherer: g}
}

// Publish makes s the snapshot served at /frames.
func (d *DebugServer) Publish(s TreeSnapshot) {
	d.latest.Store(&s)
}

// SetTrace serves b at /trace. Call before Start or Handler.
func (d *DebugServer) SetTrace(b *StepTraceBuffer) {
	d.trace = b
}

// Handler returns the HTTP handler with /frames, /metrics, /trace and /health.
func (d *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", d.handleFrames)
	if d.trace != nil {
		mux.HandleFunc("/trace", d.handleTrace)
	}
	mux.HandleFunc("/health", handleHealth)
	if d.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start listens on addr and serves in the background. It returns the bound
// address (useful with port 0).
func (d *DebugServer) Start(addr string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.server != nil {
		return d.listener.Addr().String(), nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen: %w", err)
	}

	server := &http.Server{Handler: d.Handler(), ReadHeaderTimeout: 5 * time.Second}
	d.server = server
	d.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			d.mu.Lock()
			d.server = nil
			d.listener = nil
			d.mu.Unlock()
		}
	}()

	return listener.Addr().String(), nil
}

// Shutdown gracefully stops the server.
func (d *DebugServer) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	server := d.server
	d.server = nil
	d.listener = nil
	d.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (d *DebugServer) handleFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := d.latest.Load()
	if snap == nil {
		http.Error(w, "no snapshot published", http.StatusServiceUnavailable)
		return
	}

	// Encode to buffer first so we can catch errors.
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (d *DebugServer) handleTrace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := json.Marshal(d.trace.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

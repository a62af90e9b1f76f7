package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/ValentinKolb/dPB/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/http")

// maxBodySize limits the size of a single request body
const maxBodySize = 16 << 20 // 16 MB

func NewHttpServerTransport() transport.IRPCServerTransport {
	return &httpServerTransport{}
}

type httpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *httpServerTransport) Listen(config common.ServerConfig) error {
	t.config = config

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("http transport is closed")
	}
	t.server = &http.Server{
		Addr:    config.Transport.Endpoint,
		Handler: t.router(),
	}
	server := t.server
	t.mu.Unlock()

	Logger.Infof("Starting HTTP server on %s", config.Transport.Endpoint)

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (t *httpServerTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.server == nil {
		return nil
	}
	Logger.Infof("Stopping HTTP server on %s", t.config.Transport.Endpoint)
	return t.server.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// router creates the chi router serving the RPC and metrics routes
func (t *httpServerTransport) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Register handler
	if t.config.LogLevel == "debug" {
		r.Use(loggerMiddleware)
	}

	r.Post("/{shardId}", t.handleRequest)
	r.Get("/metrics", MetricsHandler)
	return r
}

// handleRequest handles incoming HTTP requests and writes the response to the writer
func (t *httpServerTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	// Parse shardId from request
	shardId, err := strconv.ParseUint(chi.URLParam(r, "shardId"), 10, 64)

	// Check if shardId is valid
	if err != nil {
		http.Error(w, "Invalid shardId", http.StatusBadRequest)
		return
	}

	// Read request body
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	defer r.Body.Close()

	// Check if body could be read
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	// Send the handler
	resp := t.handler(shardId, body)

	// Write response
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err = w.Write(resp); err != nil {
		Logger.Errorf("Failed to write response: %v", err)
	}
}

// MetricsHandler writes all registered metrics in the Prometheus text format
func MetricsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
}

// NewMetricsServer creates an HTTP server exposing GET /metrics on addr
func NewMetricsServer(addr string) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/metrics", MetricsHandler)
	return &http.Server{
		Addr:    addr,
		Handler: r,
	}
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the writer to capture the status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		// Process request
		next.ServeHTTP(ww, r)

		// Log the request
		Logger.Debugf("%s %s => %d (%d bytes) took %s", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

// Package httpapi serves the summarizer and the tool dispatcher over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/mcp"
	"pdf-summarizer-mcp/pdf"
	"pdf-summarizer-mcp/telemetry"
)

const (
	// RequestIDHeader is echoed on every response.
	RequestIDHeader = "X-Request-Id"

	healthMessage = "MCP Summarization Server is running."
	deleteMessage = "DELETE not implemented, but endpoint is required by Smithery."

	rpcBodyLimit    = 1 << 20
	formMemoryLimit = 8 << 20
)

// Backend is the tool table plus the summarization entry points the form
// handlers call directly.
type Backend interface {
	mcp.ToolSet
	SummarizeURL(ctx context.Context, url string) (string, error)
	SummarizeDocument(ctx context.Context, doc *pdf.Document) (string, error)
	PDFOptions() pdf.Options
}

type Server struct {
	backend        Backend
	dispatcher     *mcp.Dispatcher
	maxUploadBytes int64
}

// New builds a Server. Unknown tools are answered with a text result, the
// way the HTTP variants have always reported them.
func New(backend Backend, info mcp.ServerInfo, maxUploadBytes int64) *Server {
	return &Server{
		backend:        backend,
		dispatcher:     mcp.NewDispatcher(backend, info, mcp.WithUnknownToolAsText()),
		maxUploadBytes: maxUploadBytes,
	}
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("POST /rpc", s.handleRPC)
	mux.HandleFunc("GET /mcp", s.handleMCPInfo)
	mux.HandleFunc("POST /mcp", s.handleMCPPost)
	mux.HandleFunc("DELETE /mcp", s.handleMCPDelete)
	return withRequestID(withRecover(mux))
}

type ctxKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
			"request_id", id,
		)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("http handler panic", fmt.Errorf("%v", v), "path", r.URL.Path, "stack", string(debug.Stack()))
				telemetry.CapturePanic(v, map[string]string{"path": r.URL.Path, "request_id": RequestID(r.Context())})
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: rpcError{
					Code:    mcp.CodeInternalError,
					Message: fmt.Sprintf("Internal error: %v", v),
				}})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleMCPInfo(w http.ResponseWriter, _ *http.Request) {
	descs := s.backend.Tools()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": healthMessage, "tools": names})
}

func (s *Server) handleMCPDelete(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": deleteMessage})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err.Error())
	}
}

// statusFor maps a handler error kind to the HTTP status reported for it.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errdefs.ErrInvalidInput),
		errors.Is(err, errdefs.ErrDownload),
		errors.Is(err, errdefs.ErrExtraction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

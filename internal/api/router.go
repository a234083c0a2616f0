package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/lukman83/giftlist-preview/internal/models"
	"go.uber.org/zap"
)

// Previewer is the preview capability the API serves.
type Previewer interface {
	Preview(ctx context.Context, rawURL string) *models.Preview
}

// Deps are the collaborators wired into the router.
type Deps struct {
	Previewer Previewer
	Logger    *zap.Logger
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
}

// NewRouter returns the HTTP handler for the preview API.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("GET /api/preview", handlePreview(deps.Previewer, logger))

	if deps.MCP != nil {
		mux.Handle("/mcp", deps.MCP)
	}

	return requestLogger(logger, mux)
}

func handlePreview(p Previewer, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, max-age=0")

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("preview handler panic", zap.Any("panic", rec))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()

		raw := r.URL.Query().Get("url")
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing url parameter")
			return
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			writeError(w, http.StatusBadRequest, "invalid url")
			return
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			writeError(w, http.StatusBadRequest, "url must use http or https")
			return
		}

		writeJSON(w, http.StatusOK, p.Preview(r.Context(), raw))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses (MCP over HTTP) working through the wrapper.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

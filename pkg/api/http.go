// Package api assembles the HTTP surface: versioned JSON routes over
// the document bridge and the blob store, behind request-id, security
// and logging middleware.
package api

import (
	"net/http"
	"time"

	"pairlog/pkg/api/handlers"
	"pairlog/pkg/bridge"
	"pairlog/pkg/logger"
	"pairlog/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Deps carries what the handlers need; the blob and metadata stores are
// package-global and not threaded through.
type Deps struct {
	Bridge      *bridge.Bridge
	MaxBlobSize int64
}

// Handler builds the /v1 router.
func Handler(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, requestLog, telemetry.Middleware)

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterPairs(v1, d.Bridge)
	handlers.RegisterConversations(v1, d.Bridge)
	handlers.RegisterMessages(v1, d.Bridge)
	handlers.RegisterStickers(v1, d.Bridge)
	handlers.RegisterCharacters(v1, d.Bridge)
	handlers.RegisterBlobs(v1, d.MaxBlobSize)
	handlers.RegisterSettings(v1)
	handlers.RegisterTransfer(v1, d.Bridge)
	handlers.RegisterThemes(v1, d.MaxBlobSize)
	return r
}

// requestID tags every request and response with an X-Request-ID,
// keeping a client-supplied one when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// requestLog emits one line per request with method, path, status and
// duration.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", r.Header.Get("X-Request-ID"),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

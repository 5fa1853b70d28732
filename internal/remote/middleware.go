package remote

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// tokenGate implements spec.md §4.3's path-prefix token scheme. Requests
// whose first path segment is not the token get a 404; matching requests
// reach next with that segment stripped. The unauthenticated /api/health
// route is matched by the caller's mux before the gate is reached.
func tokenGate(token *AuthToken, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !strings.HasPrefix(path, "/") {
			http.NotFound(w, r)
			return
		}

		rest := path[1:]
		segment := rest
		remainder := ""
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			segment = rest[:idx]
			remainder = rest[idx:]
		}

		if !token.Equal(segment) {
			http.NotFound(w, r)
			return
		}

		if remainder == "" {
			remainder = "/"
		}
		r.URL.Path = remainder
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// requestLogger logs method, path, status, and duration for each request.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"duration", time.Since(start).Round(time.Microsecond),
			"ip", getClientIP(r),
		)
	})
}

// writeDeadline sets a per-response write deadline via ResponseController,
// leaving long-lived WebSocket connections (not wrapped by this) unaffected.
func writeDeadline(d time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		_ = rc.SetWriteDeadline(time.Now().Add(d))
		next(w, r)
	}
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/blog-service/internal/render"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags every request with an id and logs its outcome
func RequestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			fields := logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			}
			log.WithFields(fields).Info("Request handled")
		})
	}
}

// Recoverer turns a panic into a 500. API paths get the JSON envelope, other
// paths the HTML error page.
func Recoverer(apiPrefix string, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					log.WithField("path", r.URL.Path).Errorf("Panic serving request: %v", p)
					if strings.HasPrefix(r.URL.Path, apiPrefix) {
						render.Error(w, r, http.StatusInternalServerError, "Internal server error")
						return
					}
					if err := render.Page(w, http.StatusInternalServerError); err != nil {
						log.WithError(err).Error("Failed to render error page")
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

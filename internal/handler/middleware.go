package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pptx-generator/internal/domain"
	apperrors "pptx-generator/pkg/errors"

	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestMiddleware tags requests with an id, logs them and turns handler
// panics into JSON 500 responses.
type RequestMiddleware struct {
	logger domain.Logger
}

// NewRequestMiddleware creates a new request middleware
func NewRequestMiddleware(logger domain.Logger) *RequestMiddleware {
	return &RequestMiddleware{logger: logger}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Middleware wraps next
func (m *RequestMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				err := fmt.Errorf("panic: %v", p)
				m.logger.Error("Recovered from handler panic", err, "request_id", id, "path", r.URL.Path)
				if !rec.wroteHeader {
					writeAppError(rec, apperrors.NewInternalError("internal server error", err))
				}
			}

			fields := []interface{}{
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if rec.status >= http.StatusInternalServerError {
				m.logger.Warn("HTTP request failed", fields...)
			} else {
				m.logger.Info("HTTP request", fields...)
			}
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}

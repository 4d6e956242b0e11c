package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "pptx-generator/pkg/errors"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// GetRequestID returns the id assigned by the request middleware
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError writes err as {"error","type","detail"}. Errors outside the
// taxonomy are reported as internal errors.
func writeAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("internal server error", err)
	}
	writeJSON(w, appErr.StatusCode, appErr)
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tooLargeError(limit int64) *apperrors.AppError {
	return apperrors.NewValidationError("request too large", "request body exceeds "+formatBytes(limit))
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return strconv.FormatInt(n/mib, 10) + " MiB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}

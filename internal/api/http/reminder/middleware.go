package reminder

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/oshokin/medication-alarm/internal/logger"
)

const (
	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Request-Id"
	// HeaderPatientID carries the authenticated patient id.
	HeaderPatientID = "X-Patient-Id"
)

// patientKey is the context key of the authenticated patient id.
type patientKey struct{}

// requestLogger assigns a request id, attaches it to the context logger and logs
// every completed request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithKV(r.Context(), "request_id", requestID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		defer func() {
			logger.InfoKV(
				ctx,
				"HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(started).String(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// requirePatient rejects requests without a positive X-Patient-Id header.
func requirePatient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		patientID, err := strconv.ParseInt(r.Header.Get(HeaderPatientID), 10, 64)
		if err != nil || patientID <= 0 {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+HeaderPatientID+" header")
			return
		}

		ctx := context.WithValue(r.Context(), patientKey{}, patientID)
		ctx = logger.WithKV(ctx, "patient_id", patientID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// patientFrom returns the patient id stored by requirePatient.
func patientFrom(ctx context.Context) int64 {
	patientID, _ := ctx.Value(patientKey{}).(int64)
	return patientID
}

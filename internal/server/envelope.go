package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/store"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// CalculationMetadata identifies and times one API calculation
type CalculationMetadata struct {
	CalculationID          string    `json:"calculation_id"`
	CalculationStartedAt   time.Time `json:"calculation_started_at"`
	CalculationCompletedAt time.Time `json:"calculation_completed_at"`
	CalculationDurationMs  int64     `json:"calculation_duration_ms"`
	CalculationOutcome     string    `json:"calculation_outcome"`
}

// ErrorResponse describes why a calculation failed
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Envelope wraps every calculation response
type Envelope struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	Result              any                 `json:"result,omitempty"`
	Error               *ErrorResponse      `json:"error,omitempty"`
}

// requestError marks failures caused by the caller's input
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func statusFor(err error) int {
	var reqErr *requestError
	var valErr *config.ValidationError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// calculation runs fn inside an envelope carrying a fresh calculation id and its timing
func (s *Server) calculation(fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := Envelope{CalculationMetadata: CalculationMetadata{
			CalculationID:        uuid.NewString(),
			CalculationStartedAt: time.Now().UTC(),
		}}

		result, err := fn(r)

		meta := &env.CalculationMetadata
		meta.CalculationCompletedAt = time.Now().UTC()
		meta.CalculationDurationMs = meta.CalculationCompletedAt.Sub(meta.CalculationStartedAt).Milliseconds()

		status := http.StatusOK
		if err != nil {
			status = statusFor(err)
			meta.CalculationOutcome = OutcomeFailure
			env.Error = &ErrorResponse{Status: status, Message: err.Error()}
			if status == http.StatusInternalServerError {
				s.logger.WithField("calculation_id", meta.CalculationID).Errorf("calculation failed: %v", err)
			}
		} else {
			meta.CalculationOutcome = OutcomeSuccess
			env.Result = result
		}
		s.writeJSON(w, status, env)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf("failed to encode response: %v", err)
		http.Error(w, `{"status":500,"message":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Status: status, Message: message})
}

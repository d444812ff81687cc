package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"conceptgraph/internal/domain"
	"conceptgraph/internal/service"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Envelope wraps every API response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError describes one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *GraphHandler) writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, h.logger, http.StatusOK, Envelope{Success: true, Data: data})
}

func (h *GraphHandler) writeError(w http.ResponseWriter, statusCode int, message string, details interface{}) {
	writeJSON(w, h.logger, statusCode, Envelope{Success: false, Error: message, Details: details})
}

// writeServiceError maps a service error onto a status and envelope
func (h *GraphHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeError(w, status, "internal server error", nil)
		return
	}
	h.writeError(w, status, err.Error(), nil)
}

// writeValidationError reports validator failures as 400 with per-field details
func (h *GraphHandler) writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	h.writeError(w, http.StatusBadRequest, "validation failed", details)
}

// StatusFor returns the HTTP status for an error from the service layer
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidGraph), errors.Is(err, domain.ErrBudgetExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

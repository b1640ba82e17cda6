package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/matchday/matchday-server-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code"`
	Details any                 `json:"details,omitempty"`
}

// WriteError writes an AppError as an HTTP response with appropriate status code
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	WriteJSON(w, statusFromCode(appErr.Code), ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// statusFromCode maps ErrorCode to HTTP status code
func statusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest

	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized

	case apperrors.ErrCodeUserBlocked,
		apperrors.ErrCodeFeatureDisabled:
		return http.StatusForbidden

	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeNoSuchTarget:
		return http.StatusNotFound

	case apperrors.ErrCodeAlreadyPaired,
		apperrors.ErrCodeTargetLocked,
		apperrors.ErrCodeTargetUnpaired:
		return http.StatusConflict

	case apperrors.ErrCodeQuotaExceeded:
		return http.StatusTooManyRequests

	case apperrors.ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/logger"
)

// Standard response types for consistent API responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	// Encode before writing headers so an encoding failure can still become a 500
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped error
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	statusCode, userMsg := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if statusCode >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Debug(LogMsgServiceError, "operation", opName, "error", err)
	}
	respondError(w, statusCode, userMsg)
}

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgInvalidRequestError  = "Invalid request. Please check your inputs."
	ErrMsgAuthFailedError      = "Authentication failed. Please check your API key."
	ErrMsgResourceNotFoundErr  = "Resource not found."
	ErrMsgTooManyRequestsError = "Too many requests. Please try again later."
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."

	// Round messages
	ErrMsgInvalidStateError       = "That action is not available in the current round phase"
	ErrMsgInvalidStakeError       = "Stake is outside the allowed range"
	ErrMsgInvalidAutoCashoutError = "Auto cashout must be greater than 1.00x"
	ErrMsgCashoutBelowMinError    = "Multiplier is below the minimum cashout"
	ErrMsgAlreadyPlacedError      = "You already have a bet in this round"
	ErrMsgBetNotFoundError        = "You have no active bet in this round"
	ErrMsgAlreadySettledError     = "Your bet is already settled"
	ErrMsgRoundNotFoundError      = "Round not found"

	// Balance messages
	ErrMsgInsufficientBalanceError = "Not enough balance"
	ErrMsgParticipantNotFoundError = "Participant not found"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, ErrMsgInvalidStateError
	case errors.Is(err, domain.ErrAlreadySettled):
		return http.StatusConflict, ErrMsgAlreadySettledError
	case errors.Is(err, domain.ErrAlreadyPlaced):
		return http.StatusConflict, ErrMsgAlreadyPlacedError
	case errors.Is(err, domain.ErrCashoutBelowMin):
		return http.StatusConflict, ErrMsgCashoutBelowMinError
	case errors.Is(err, domain.ErrInvalidStake):
		return http.StatusBadRequest, ErrMsgInvalidStakeError
	case errors.Is(err, domain.ErrInvalidAutoCashout):
		return http.StatusBadRequest, ErrMsgInvalidAutoCashoutError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusPaymentRequired, ErrMsgInsufficientBalanceError
	case errors.Is(err, domain.ErrBetNotFound):
		return http.StatusNotFound, ErrMsgBetNotFoundError
	case errors.Is(err, domain.ErrParticipantNotFound):
		return http.StatusNotFound, ErrMsgParticipantNotFoundError
	case errors.Is(err, domain.ErrRoundNotFound):
		return http.StatusNotFound, ErrMsgRoundNotFoundError
	case errors.Is(err, domain.ErrEngineStopped):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	// Storage and unexpected errors never leak details
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

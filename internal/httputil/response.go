// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type errorMapping struct {
	status  int
	message string
}

// errorMappings is keyed by apperrors.Code. An empty message echoes err.Error().
var errorMappings = map[string]errorMapping{
	"not_found":         {http.StatusNotFound, "The requested resource was not found"},
	"conflict":          {http.StatusConflict, ""},
	"invalid_input":     {http.StatusUnprocessableEntity, ""},
	"payload_too_large": {http.StatusRequestEntityTooLarge, ""},
	"unauthorized":      {http.StatusUnauthorized, "Authentication is required"},
	"forbidden":         {http.StatusForbidden, "You don't have permission to access this resource"},
}

// StatusForError returns the HTTP status code and public response for a domain error.
// Anything outside the domain vocabulary becomes a generic 500.
func StatusForError(err error) (int, ErrorResponse) {
	code := apperrors.Code(err)
	mapping, ok := errorMappings[code]
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{
			Error:   apperrors.CodeInternal,
			Message: "An internal error occurred",
		}
	}

	message := mapping.message
	if message == "" {
		message = err.Error()
	}
	return mapping.status, ErrorResponse{Error: code, Message: message}
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON response.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := StatusForError(err)

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

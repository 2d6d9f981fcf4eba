package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verte-zerg/arcgauge/internal/model"
)

// APIError represents a structured API error response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error.
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewServiceUnavailableError creates a 503 Service Unavailable error.
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
	}
}

// FromError maps gauge errors onto API errors.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, model.ErrConfiguration):
		return &APIError{Status: http.StatusBadRequest, Code: "CONFIGURATION_ERROR", Message: "invalid gauge configuration", Details: err.Error()}
	case errors.Is(err, model.ErrInteraction):
		return &APIError{Status: http.StatusBadRequest, Code: "INTERACTION_ERROR", Message: "invalid interaction", Details: err.Error()}
	case errors.Is(err, model.ErrLifecycle):
		return &APIError{Status: http.StatusGone, Code: "GAUGE_DISPOSED", Message: "gauge is no longer available", Details: err.Error()}
	case errors.Is(err, ErrStopped):
		return NewServiceUnavailableError("gauge loop stopped")
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return &APIError{Status: httpErr.Code, Code: "HTTP_ERROR", Message: fmt.Sprintf("%v", httpErr.Message)}
	}
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "UNKNOWN_ERROR",
		Message: "An unexpected error occurred",
		Details: err.Error(),
	}
}

// ErrorHandler is the echo HTTPErrorHandler for the gauge API.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	apiErr := FromError(err)
	if jerr := c.JSON(apiErr.Status, apiErr); jerr != nil {
		c.Logger().Error(jerr)
	}
}

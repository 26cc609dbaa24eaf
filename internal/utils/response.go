package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the standard envelope for successful requests.
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard envelope for failed requests.
type ErrorResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Errors     interface{} `json:"errors,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success:    false,
		Message:    message,
		StatusCode: statusCode,
		Timestamp:  now(),
	})
}

// ErrorWithDetails sends an error response carrying structured details
// (validation field errors, scheduling conflicts).
func ErrorWithDetails(c *gin.Context, statusCode int, message string, errors interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Success:    false,
		Message:    message,
		StatusCode: statusCode,
		Errors:     errors,
		Timestamp:  now(),
	})
}

// BadRequest sends a 400 Bad Request error response (business-rule violation).
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict error response (scheduling overlap,
// duplicate identification or email).
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// UnprocessableEntity sends a 422 error response for schema-level
// validation failures.
func UnprocessableEntity(c *gin.Context, message string, errors interface{}) {
	ErrorWithDetails(c, http.StatusUnprocessableEntity, message, errors)
}

// InternalServerError sends a 500 Internal Server Error response. The
// caller is responsible for logging the underlying error; only the generic
// message reaches the client.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

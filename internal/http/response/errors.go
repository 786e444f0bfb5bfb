package response

import (
	"encoding/json"
	"net/http"

	"github.com/frontdesk/vms/pkg/logger"
)

// ErrorResponse is the structured JSON error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// Error kind codes surfaced to callers
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeRateLimit           = "RATE_LIMIT_EXCEEDED"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeVisitNotFound       = "VISIT_NOT_FOUND"
	CodeVisitorNotFound     = "VISITOR_NOT_FOUND"
	CodeHostNotFound        = "HOST_NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeDepartmentNotFound  = "DEPARTMENT_NOT_FOUND"
	CodeForbiddenTransition = "FORBIDDEN_TRANSITION"
	CodeAlreadyCheckedIn    = "ALREADY_CHECKED_IN"
	CodeNotCurrentlyInside  = "NOT_CURRENTLY_INSIDE"
	CodeDuplicateDepartment = "DUPLICATE_DEPARTMENT"
	CodeDuplicateContact    = "DUPLICATE_EMAIL_OR_PHONE"
	CodeMissingField        = "MISSING_REQUIRED_FIELD"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAdminExists         = "ADMIN_EXISTS"
)

// Convenience helpers for common cases
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// WriteJSON writes a JSON payload with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/frontdesk/vms/internal/domain"
	"github.com/frontdesk/vms/internal/http/response"
	"github.com/frontdesk/vms/pkg/logger"
)

// writeDomainError maps service errors onto the JSON error envelope.
// Unknown errors are logged and reported as 500 without leaking detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var forbidden *domain.ForbiddenTransitionError
	if errors.As(err, &forbidden) {
		response.WriteError(w, http.StatusForbidden, forbidden.Error(), response.CodeForbiddenTransition)
		return
	}

	switch {
	case errors.Is(err, domain.ErrVisitNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error(), response.CodeVisitNotFound)
	case errors.Is(err, domain.ErrVisitorNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error(), response.CodeVisitorNotFound)
	case errors.Is(err, domain.ErrHostNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error(), response.CodeHostNotFound)
	case errors.Is(err, domain.ErrUserNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error(), response.CodeUserNotFound)
	case errors.Is(err, domain.ErrDepartmentNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error(), response.CodeDepartmentNotFound)
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		response.WriteError(w, http.StatusConflict, err.Error(), response.CodeAlreadyCheckedIn)
	case errors.Is(err, domain.ErrNotCurrentlyInside):
		response.WriteError(w, http.StatusConflict, err.Error(), response.CodeNotCurrentlyInside)
	case errors.Is(err, domain.ErrDuplicateDepartment):
		response.WriteError(w, http.StatusConflict, err.Error(), response.CodeDuplicateDepartment)
	case errors.Is(err, domain.ErrDuplicateEmailOrPhone):
		response.WriteError(w, http.StatusConflict, err.Error(), response.CodeDuplicateContact)
	case errors.Is(err, domain.ErrAdminExists):
		response.WriteError(w, http.StatusConflict, err.Error(), response.CodeAdminExists)
	case errors.Is(err, domain.ErrAdminUndeletable):
		response.WriteError(w, http.StatusForbidden, err.Error(), response.CodeForbidden)
	case errors.Is(err, domain.ErrMissingRequiredField):
		response.WriteError(w, http.StatusBadRequest, err.Error(), response.CodeMissingField)
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrWeakPassword):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.WriteError(w, http.StatusUnauthorized, err.Error(), response.CodeInvalidCredentials)
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error", "error", err)
		response.InternalError(w, "internal error")
	}
}

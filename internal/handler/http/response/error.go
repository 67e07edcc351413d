package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/file"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/issue"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUnauthorized):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, "Admin access required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoCheckInFound),
		errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrReportRequired),
		errors.Is(err, attendance.ErrMakeupTimeRequired),
		errors.Is(err, attendance.ErrInvalidMakeupTime),
		errors.Is(err, attendance.ErrNotLate):
		BadRequest(w, err.Error(), nil)

	// Issue domain errors
	case errors.Is(err, issue.ErrIssueNotFound):
		NotFound(w, "Issue not found")
	case errors.Is(err, issue.ErrIssueNotDeletable):
		Conflict(w, err.Error())
	case errors.Is(err, issue.ErrUnauthorized),
		errors.Is(err, issue.ErrAdminNotesDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, issue.ErrMissingFields),
		errors.Is(err, issue.ErrBackwardStatus):
		BadRequest(w, err.Error(), nil)

	// File domain errors
	case errors.Is(err, file.ErrNoFiles):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, file.ErrFileTooLarge):
		PayloadTooLarge(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

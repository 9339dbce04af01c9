package response

import (
	"errors"
	"net/http"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/qrcode"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/task"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Start-gate denials carry a reason code
	var policyErr *workday.PolicyDeniedError
	if errors.As(err, &policyErr) {
		PolicyDenied(w, string(policyErr.Reason), policyErr.Message)
		return
	}

	switch {
	// Timer state errors
	case errors.Is(err, workday.ErrTimerAlreadyRunning):
		Conflict(w, "A timer is already running")
	case errors.Is(err, workday.ErrNoActiveTimer):
		Conflict(w, "No timer is currently running")

	// Workday domain errors
	case errors.Is(err, workday.ErrWorkdayNotFound):
		NotFound(w, "Workday not found")
	case errors.Is(err, workday.ErrSessionNotFound):
		NotFound(w, "Work session not found")

	// QR scan errors
	case errors.Is(err, qrcode.ErrQRCodeNotFound):
		NotFound(w, "QR code not found")
	case errors.Is(err, qrcode.ErrQRCodeInactive):
		Forbidden(w, "QR code is inactive")
	case errors.Is(err, qrcode.ErrScanEventNotFound):
		NotFound(w, "Scan entry not found")

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

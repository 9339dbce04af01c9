package qrcode

import (
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/validator"
)

// ========================================
// QR SCAN DTOs
// ========================================

type ScanRequest struct {
	Code string `json:"code"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

const (
	ScanTypeEntry = "entry"
	ScanTypeExit  = "exit"
)

type ScanResponse struct {
	Type     string `json:"type"` // "entry" or "exit"
	ScanTime string `json:"scan_time"`

	// Entry: the timer that was opened. Exit via the timer path: nil.
	Timer *workday.ActiveTimerResponse `json:"timer,omitempty"`

	// Exit: the finalized session. Populated by both the timer path and the
	// legacy raw-pair fallback.
	Session *workday.SessionResponse `json:"session,omitempty"`

	// Exit: true when the session was derived from the raw entry/exit pair
	// because no matching timer was open (lower fidelity, no break/overtime).
	LegacyFallback bool `json:"legacy_fallback,omitempty"`
}

package workday

import (
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/validator"
)

// ========================================
// TIMER DTOs
// ========================================

type CanStartRequest struct {
	Date string `json:"date"` // YYYY-MM-DD; empty means today
}

func (r *CanStartRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StartTimerRequest struct {
	WorkDescription string  `json:"work_description"`
	TaskID          *string `json:"task_id"`
	IsOvertime      bool    `json:"is_overtime"`
}

func (r *StartTimerRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TaskID != nil && !validator.IsValidUUID(*r.TaskID) {
		errs = append(errs, validator.ValidationError{
			Field:   "task_id",
			Message: "task_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLabelRequest struct {
	WorkDescription string  `json:"work_description"`
	TaskID          *string `json:"task_id"`
}

func (r *UpdateLabelRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TaskID != nil && !validator.IsValidUUID(*r.TaskID) {
		errs = append(errs, validator.ValidationError{
			Field:   "task_id",
			Message: "task_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SplitRequest struct {
	WorkDescription string  `json:"work_description"`
	TaskID          *string `json:"task_id"`
	IsOvertime      bool    `json:"is_overtime"`
}

func (r *SplitRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TaskID != nil && !validator.IsValidUUID(*r.TaskID) {
		errs = append(errs, validator.ValidationError{
			Field:   "task_id",
			Message: "task_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ManualEntryRequest struct {
	Date             string  `json:"date"`
	HoursWorked      float64 `json:"hours_worked"`
	AdditionalWorked float64 `json:"additional_worked"`
	AbsenceType      *string `json:"absence_type"`
	Notes            *string `json:"notes"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.HoursWorked < 0 || r.HoursWorked > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_worked",
			Message: "hours_worked must be between 0 and 24",
		})
	}

	if r.AdditionalWorked < 0 || r.AdditionalWorked > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "additional_worked",
			Message: "additional_worked must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

// StartGateDecision is the start gate's answer for one (user, date).
type StartGateDecision struct {
	Allowed bool          `json:"allowed"`
	Reason  *PolicyReason `json:"reason,omitempty"`
	Message *string       `json:"message,omitempty"`
}

type ActiveTimerResponse struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	ElapsedSeconds  int64   `json:"elapsed_seconds"`
	IsBreak         bool    `json:"is_break"`
	BreakSeconds    int64   `json:"break_seconds"`
	IsOvertime      bool    `json:"is_overtime"`
	OvertimeSeconds int64   `json:"overtime_seconds"`
	WorkDescription string  `json:"work_description"`
	TaskID          *string `json:"task_id,omitempty"`
	QRCodeID        *string `json:"qr_code_id,omitempty"`
}

type SessionResponse struct {
	ID              string  `json:"id"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DisplayRange    string  `json:"display_range"`
	IsBreak         bool    `json:"is_break"`
	BreakSeconds    int64   `json:"break_seconds"`
	IsOvertime      bool    `json:"is_overtime"`
	OvertimeSeconds int64   `json:"overtime_seconds"`
	WorkedHours     float64 `json:"worked_hours"`
	WorkDescription string  `json:"work_description"`
	TaskID          *string `json:"task_id,omitempty"`
	QRCodeID        *string `json:"qr_code_id,omitempty"`
}

type WorkdayResponse struct {
	ID               string            `json:"id"`
	Date             string            `json:"date"`
	HoursWorked      float64           `json:"hours_worked"`
	AdditionalWorked float64           `json:"additional_worked"`
	WorkedRanges     string            `json:"worked_ranges"`
	AbsenceType      *string           `json:"absence_type,omitempty"`
	Notes            *string           `json:"notes,omitempty"`
	ManualEntry      bool              `json:"manual_entry"`
	Sessions         []SessionResponse `json:"sessions,omitempty"`
}

type StopTimerResponse struct {
	Session SessionResponse `json:"session"`
	Workday WorkdayResponse `json:"workday"`
}

type SplitTimerResponse struct {
	ClosedSession SessionResponse     `json:"closed_session"`
	Timer         ActiveTimerResponse `json:"timer"`
}

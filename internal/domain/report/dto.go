package report

import (
	"fmt"
	"time"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/validator"
)

// ========================================
// MONTHLY SESSION REPORT
// ========================================

type SessionsForRangeRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *SessionsForRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SessionGroup is one task/description bucket of the monthly report.
type SessionGroup struct {
	// Key is the task ID when the sessions are task-linked, otherwise the
	// normalized work description.
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	TaskID       *string `json:"task_id,omitempty"`
	TotalMinutes int64   `json:"total_minutes"`
	Percentage   float64 `json:"percentage"`
	SessionCount int     `json:"session_count"`
}

type SessionsForRangeResponse struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	Groups       []SessionGroup `json:"groups"`
	TotalMinutes int64          `json:"total_minutes"`
	TotalHours   float64        `json:"total_hours"`

	// AvailableDates lists the calendar days that have at least one recorded
	// session, for calendar UI hints.
	AvailableDates []string `json:"available_dates"`
}

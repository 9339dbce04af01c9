package workday

import "errors"

// Workday domain errors
var (
	// Timer state errors
	ErrTimerAlreadyRunning = errors.New("a timer is already running")
	ErrNoActiveTimer       = errors.New("no timer is currently running")

	// General errors
	ErrWorkdayNotFound = errors.New("workday not found")
	ErrSessionNotFound = errors.New("work session not found")
)

// PolicyReason identifies why the start gate denied starting a timer.
type PolicyReason string

const (
	ReasonManualEntryConflict PolicyReason = "manual_entry_conflict"
	ReasonWeekend             PolicyReason = "weekend"
	ReasonHoliday             PolicyReason = "holiday"
	ReasonLeaveOverlap        PolicyReason = "leave_overlap"
)

// PolicyDeniedError is a start-gate rejection. It carries a stable reason code
// for the caller plus a user-facing message. No state is changed on denial.
type PolicyDeniedError struct {
	Reason  PolicyReason
	Message string
}

func (e *PolicyDeniedError) Error() string {
	return e.Message
}

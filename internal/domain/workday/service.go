package workday

import (
	"context"
)

// TimerService defines the timer state machine over the workday ledger
type TimerService interface {
	// CanStart runs the start gate for a date without side effects
	CanStart(ctx context.Context, req CanStartRequest) (StartGateDecision, error)

	// Start opens a timer on today's workday after consulting the start gate
	Start(ctx context.Context, req StartTimerRequest) (ActiveTimerResponse, error)

	// PauseResume toggles the break sub-state of the open timer
	PauseResume(ctx context.Context) (ActiveTimerResponse, error)

	// ToggleOvertime toggles the overtime sub-state of the open timer
	ToggleOvertime(ctx context.Context) (ActiveTimerResponse, error)

	// UpdateActiveLabel relabels the open timer in place
	UpdateActiveLabel(ctx context.Context, req UpdateLabelRequest) (ActiveTimerResponse, error)

	// Split finalizes the open segment and immediately reopens a timer with a
	// new label, without stopping the clock
	Split(ctx context.Context, req SplitRequest) (SplitTimerResponse, error)

	// Stop finalizes the open timer into a closed session
	Stop(ctx context.Context) (StopTimerResponse, error)

	// GetActive returns the open timer, or nil when idle
	GetActive(ctx context.Context) (*ActiveTimerResponse, error)

	// DeleteSession removes one closed session and reverses its totals
	DeleteSession(ctx context.Context, sessionID string) (WorkdayResponse, error)

	// UpsertManualEntry records a manually entered day, the alternate input
	// path that excludes timer use on that date
	UpsertManualEntry(ctx context.Context, req ManualEntryRequest) (WorkdayResponse, error)
}

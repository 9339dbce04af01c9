package workday

import (
	"context"
	"time"
)

// WorkdayRepository defines data access for workday ledgers.
// All methods take companyID to prevent cross-company data access.
type WorkdayRepository interface {
	// Create inserts a new workday row
	Create(ctx context.Context, day Workday) (Workday, error)

	// GetByID retrieves a workday with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Workday, error)

	// GetByUserAndDate returns the workday for (user, calendar day), or nil
	// when none exists yet
	GetByUserAndDate(ctx context.Context, userID string, date time.Time, companyID string) (*Workday, error)

	// AddToTotals applies a signed delta to the cumulative totals
	AddToTotals(ctx context.Context, id string, hoursDelta float64, additionalDelta float64) error

	// UpsertManualEntry creates or overwrites the manual-entry fields for
	// (user, date)
	UpsertManualEntry(ctx context.Context, day Workday) (Workday, error)

	// ListForRange returns the user's workdays with work_date in [from, to),
	// sessions included, ordered by date
	ListForRange(ctx context.Context, userID string, from time.Time, to time.Time, companyID string) ([]Workday, error)
}

// SessionRepository manages the closed-session ledger.
type SessionRepository interface {
	// Append adds a finalized session to its workday's ledger
	Append(ctx context.Context, session WorkSession) (WorkSession, error)

	// GetByID retrieves a session, scoped to its owner via the workday
	GetByID(ctx context.Context, id string, userID string, companyID string) (WorkSession, error)

	// ListByWorkday returns a workday's sessions in ledger order
	ListByWorkday(ctx context.Context, workdayID string) ([]WorkSession, error)

	// Delete removes a single session owned by the user
	Delete(ctx context.Context, id string, userID string, companyID string) error
}

// ActiveTimerRepository is the per-user open-timer index. The table carries a
// unique constraint on user_id, which is what enforces "at most one open timer
// per user" at the storage layer.
type ActiveTimerRepository interface {
	// GetByUser returns the user's open timer, or nil when idle
	GetByUser(ctx context.Context, userID string) (*ActiveTimer, error)

	// Create opens a timer; fails on the unique index if one is already open
	Create(ctx context.Context, timer ActiveTimer) (ActiveTimer, error)

	// Update persists break/overtime/label changes on the open timer
	Update(ctx context.Context, timer ActiveTimer) error

	// Delete clears the timer after finalization
	Delete(ctx context.Context, id string) error
}

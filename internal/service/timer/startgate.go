package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/company"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/leave"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
)

// Denial messages, one per reason, surfaced to the user as-is.
const (
	msgManualEntryConflict = "hours for this day were already entered manually"
	msgWeekend             = "working on weekends is disabled for your company"
	msgHoliday             = "this date is a holiday"
	msgLeaveOverlap        = "an approved leave request covers this date"
)

// StartGate decides whether a timer may be started on a given calendar day.
// It is shared by manual timer starts and QR entry scans; exits and other
// timer mutations never consult it.
type StartGate struct {
	workdays workday.WorkdayRepository
	settings company.SettingsRepository
	leaves   leave.LeaveRepository
}

func NewStartGate(
	workdayRepo workday.WorkdayRepository,
	settingsRepo company.SettingsRepository,
	leaveRepo leave.LeaveRepository,
) *StartGate {
	return &StartGate{
		workdays: workdayRepo,
		settings: settingsRepo,
		leaves:   leaveRepo,
	}
}

func denied(reason workday.PolicyReason, message string) workday.StartGateDecision {
	return workday.StartGateDecision{
		Allowed: false,
		Reason:  &reason,
		Message: &message,
	}
}

// Evaluate runs the checks in precedence order: manual-entry conflict,
// weekend, holiday, leave overlap. Read-only; calling it twice for the same
// blocked date yields the same denial both times.
func (g *StartGate) Evaluate(ctx context.Context, userID, companyID string, date time.Time) (workday.StartGateDecision, error) {
	day, err := g.workdays.GetByUserAndDate(ctx, userID, date, companyID)
	if err != nil {
		return workday.StartGateDecision{}, fmt.Errorf("failed to get workday: %w", err)
	}
	if day != nil && day.ManualEntry && day.HoursWorked > 0 {
		return denied(workday.ReasonManualEntryConflict, msgManualEntryConflict), nil
	}

	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		settings, err := g.settings.GetSettings(ctx, companyID)
		if err != nil {
			return workday.StartGateDecision{}, fmt.Errorf("failed to get company settings: %w", err)
		}
		if !settings.WorkOnWeekends {
			return denied(workday.ReasonWeekend, msgWeekend), nil
		}
	}

	isHoliday, err := g.settings.IsHoliday(ctx, companyID, date)
	if err != nil {
		return workday.StartGateDecision{}, fmt.Errorf("failed to check holiday: %w", err)
	}
	if isHoliday {
		return denied(workday.ReasonHoliday, msgHoliday), nil
	}

	ranges, err := g.leaves.GetApprovedRanges(ctx, userID, companyID)
	if err != nil {
		return workday.StartGateDecision{}, fmt.Errorf("failed to get approved leave ranges: %w", err)
	}
	for _, r := range ranges {
		if r.Covers(date) {
			return denied(workday.ReasonLeaveOverlap, msgLeaveOverlap), nil
		}
	}

	return workday.StartGateDecision{Allowed: true}, nil
}

package workday

import (
	"strings"
	"time"
)

// Workday is the per-user, per-calendar-day ledger: cumulative totals plus the
// ordered list of closed sessions. Rows are created lazily on first timer start
// or manual entry.
type Workday struct {
	ID               string
	CompanyID        string
	UserID           string
	Date             time.Time
	HoursWorked      float64
	AdditionalWorked float64
	AbsenceType      *string
	Notes            *string
	ManualEntry      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Loaded on demand
	Sessions []WorkSession
}

// WorkSession is a finalized work interval appended to a workday. Immutable
// except for deletion, which reverses its contribution to the day's totals.
type WorkSession struct {
	ID              string
	WorkdayID       string
	StartTime       time.Time
	EndTime         time.Time
	IsBreak         bool
	BreakSeconds    int64
	IsOvertime      bool
	OvertimeSeconds int64
	WorkDescription string
	TaskID          *string
	QRCodeID        *string
	CreatedAt       time.Time
}

// ActiveTimer is the single open work interval a user may have. It lives in
// its own table keyed uniquely by user, so "is a timer running" is a direct
// lookup and a shift started yesterday is found without scanning calendar days.
type ActiveTimer struct {
	ID                   string
	UserID               string
	CompanyID            string
	WorkdayID            string
	StartTime            time.Time
	IsBreak              bool
	BreakStartTime       *time.Time
	TotalBreakSeconds    int64
	IsOvertime           bool
	OvertimeStartTime    *time.Time
	TotalOvertimeSeconds int64
	WorkDescription      string
	TaskID               *string
	QRCodeID             *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DayOf maps an instant to its calendar day in loc, normalized to a UTC
// midnight so it round-trips cleanly through a SQL date column.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s WorkSession) ElapsedSeconds() int64 {
	return int64(s.EndTime.Sub(s.StartTime).Seconds())
}

// WorkedSeconds is the session's contribution to HoursWorked: elapsed wall
// time minus break and overtime seconds. Break sessions contribute nothing;
// overtime is accounted into AdditionalWorked instead, never twice.
func (s WorkSession) WorkedSeconds() int64 {
	if s.IsBreak {
		return 0
	}
	worked := s.ElapsedSeconds() - s.BreakSeconds - s.OvertimeSeconds
	if worked < 0 {
		return 0
	}
	return worked
}

func (s WorkSession) WorkedHours() float64 {
	return float64(s.WorkedSeconds()) / 3600.0
}

func (s WorkSession) OvertimeHours() float64 {
	return float64(s.OvertimeSeconds) / 3600.0
}

// DisplayRange renders the session as "HH:mm-HH:mm" in the display timezone.
func (s WorkSession) DisplayRange(loc *time.Location) string {
	return s.StartTime.In(loc).Format("15:04") + "-" + s.EndTime.In(loc).Format("15:04")
}

// WorkedRanges derives the comma-joined display ranges of the non-break
// sessions, in ledger order. Computed on read; never stored.
func WorkedRanges(sessions []WorkSession, loc *time.Location) string {
	var ranges []string
	for _, s := range sessions {
		if s.IsBreak {
			continue
		}
		ranges = append(ranges, s.DisplayRange(loc))
	}
	return strings.Join(ranges, ",")
}

// BreakSecondsAt returns accumulated break time including the currently open
// break segment, if any.
func (t *ActiveTimer) BreakSecondsAt(now time.Time) int64 {
	total := t.TotalBreakSeconds
	if t.IsBreak && t.BreakStartTime != nil {
		total += int64(now.Sub(*t.BreakStartTime).Seconds())
	}
	return total
}

// OvertimeSecondsAt returns accumulated overtime including the open segment.
func (t *ActiveTimer) OvertimeSecondsAt(now time.Time) int64 {
	total := t.TotalOvertimeSeconds
	if t.IsOvertime && t.OvertimeStartTime != nil {
		total += int64(now.Sub(*t.OvertimeStartTime).Seconds())
	}
	return total
}

// Finalize folds any open break/overtime segment and converts the timer into
// the closed session it produced. The session lands on the workday the timer
// was started on, which is what attributes a cross-midnight shift to the day
// it began.
func (t *ActiveTimer) Finalize(now time.Time) WorkSession {
	breakSeconds := t.BreakSecondsAt(now)
	overtimeSeconds := t.OvertimeSecondsAt(now)
	elapsed := int64(now.Sub(t.StartTime).Seconds())

	return WorkSession{
		WorkdayID: t.WorkdayID,
		StartTime: t.StartTime,
		EndTime:   now,
		// The whole interval was spent on break: the session itself is a break.
		IsBreak:         breakSeconds >= elapsed && breakSeconds > 0,
		BreakSeconds:    breakSeconds,
		IsOvertime:      t.IsOvertime,
		OvertimeSeconds: overtimeSeconds,
		WorkDescription: t.WorkDescription,
		TaskID:          t.TaskID,
		QRCodeID:        t.QRCodeID,
	}
}

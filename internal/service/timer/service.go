package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/userlock"
)

type TimerServiceImpl struct {
	tx database.TxRunner
	workday.WorkdayRepository
	workday.SessionRepository
	workday.ActiveTimerRepository
	gate  *StartGate
	locks *userlock.Locker
	loc   *time.Location
	clock func() time.Time
}

func NewTimerService(
	tx database.TxRunner,
	workdayRepo workday.WorkdayRepository,
	sessionRepo workday.SessionRepository,
	activeTimerRepo workday.ActiveTimerRepository,
	gate *StartGate,
	locks *userlock.Locker,
	loc *time.Location,
) workday.TimerService {
	return &TimerServiceImpl{
		tx:                    tx,
		WorkdayRepository:     workdayRepo,
		SessionRepository:     sessionRepo,
		ActiveTimerRepository: activeTimerRepo,
		gate:                  gate,
		locks:                 locks,
		loc:                   loc,
		clock:                 time.Now,
	}
}

// CanStart implements workday.TimerService.
func (s *TimerServiceImpl) CanStart(ctx context.Context, req workday.CanStartRequest) (workday.StartGateDecision, error) {
	if err := req.Validate(); err != nil {
		return workday.StartGateDecision{}, err
	}

	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return workday.StartGateDecision{}, err
	}

	date := workday.DayOf(s.clock(), s.loc)
	if req.Date != "" {
		parsed, _ := time.Parse("2006-01-02", req.Date)
		date = parsed
	}

	return s.gate.Evaluate(ctx, userID, companyID, date)
}

// Start implements workday.TimerService.
func (s *TimerServiceImpl) Start(ctx context.Context, req workday.StartTimerRequest) (workday.ActiveTimerResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	// Global check across all aggregates, not just today's; an overnight
	// shift keeps yesterday's timer open past midnight.
	existing, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if existing != nil {
		return workday.ActiveTimerResponse{}, workday.ErrTimerAlreadyRunning
	}

	now := s.clock().UTC()
	date := workday.DayOf(now, s.loc)

	decision, err := s.gate.Evaluate(ctx, userID, companyID, date)
	if err != nil {
		return workday.ActiveTimerResponse{}, err
	}
	if !decision.Allowed {
		return workday.ActiveTimerResponse{}, &workday.PolicyDeniedError{
			Reason:  *decision.Reason,
			Message: *decision.Message,
		}
	}

	var created workday.ActiveTimer
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := s.WorkdayRepository.GetByUserAndDate(txCtx, userID, date, companyID)
		if err != nil {
			return fmt.Errorf("failed to get workday: %w", err)
		}
		if day == nil {
			newDay, err := s.WorkdayRepository.Create(txCtx, workday.Workday{
				CompanyID: companyID,
				UserID:    userID,
				Date:      date,
			})
			if err != nil {
				return fmt.Errorf("failed to create workday: %w", err)
			}
			day = &newDay
		}

		timer := workday.ActiveTimer{
			UserID:          userID,
			CompanyID:       companyID,
			WorkdayID:       day.ID,
			StartTime:       now,
			WorkDescription: req.WorkDescription,
			TaskID:          req.TaskID,
			IsOvertime:      req.IsOvertime,
		}
		if req.IsOvertime {
			timer.OvertimeStartTime = &now
		}

		created, err = s.ActiveTimerRepository.Create(txCtx, timer)
		if err != nil {
			return fmt.Errorf("failed to create active timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	return mapTimerToResponse(created, now, s.loc), nil
}

// PauseResume implements workday.TimerService.
func (s *TimerServiceImpl) PauseResume(ctx context.Context) (workday.ActiveTimerResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer == nil {
		return workday.ActiveTimerResponse{}, workday.ErrNoActiveTimer
	}

	now := s.clock().UTC()
	if timer.IsBreak {
		// Leaving break: fold the open segment into the closed total.
		if timer.BreakStartTime != nil {
			timer.TotalBreakSeconds += int64(now.Sub(*timer.BreakStartTime).Seconds())
		}
		timer.IsBreak = false
		timer.BreakStartTime = nil
	} else {
		timer.IsBreak = true
		timer.BreakStartTime = &now
	}

	if err := s.ActiveTimerRepository.Update(ctx, *timer); err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to update active timer: %w", err)
	}

	return mapTimerToResponse(*timer, now, s.loc), nil
}

// ToggleOvertime implements workday.TimerService.
func (s *TimerServiceImpl) ToggleOvertime(ctx context.Context) (workday.ActiveTimerResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer == nil {
		return workday.ActiveTimerResponse{}, workday.ErrNoActiveTimer
	}

	now := s.clock().UTC()
	if timer.IsOvertime {
		if timer.OvertimeStartTime != nil {
			timer.TotalOvertimeSeconds += int64(now.Sub(*timer.OvertimeStartTime).Seconds())
		}
		timer.IsOvertime = false
		timer.OvertimeStartTime = nil
	} else {
		timer.IsOvertime = true
		timer.OvertimeStartTime = &now
	}

	if err := s.ActiveTimerRepository.Update(ctx, *timer); err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to update active timer: %w", err)
	}

	return mapTimerToResponse(*timer, now, s.loc), nil
}

// UpdateActiveLabel implements workday.TimerService.
func (s *TimerServiceImpl) UpdateActiveLabel(ctx context.Context, req workday.UpdateLabelRequest) (workday.ActiveTimerResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return workday.ActiveTimerResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer == nil {
		return workday.ActiveTimerResponse{}, workday.ErrNoActiveTimer
	}

	timer.WorkDescription = req.WorkDescription
	timer.TaskID = req.TaskID

	if err := s.ActiveTimerRepository.Update(ctx, *timer); err != nil {
		return workday.ActiveTimerResponse{}, fmt.Errorf("failed to update active timer: %w", err)
	}

	return mapTimerToResponse(*timer, s.clock().UTC(), s.loc), nil
}

// Split implements workday.TimerService.
// The open segment is finalized exactly as Stop would, but a new timer opens
// at the same instant on the same workday, carrying the QR binding and break
// state, so relabeling never loses elapsed time.
func (s *TimerServiceImpl) Split(ctx context.Context, req workday.SplitRequest) (workday.SplitTimerResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.SplitTimerResponse{}, err
	}

	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return workday.SplitTimerResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return workday.SplitTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer == nil {
		return workday.SplitTimerResponse{}, workday.ErrNoActiveTimer
	}

	now := s.clock().UTC()
	session := timer.Finalize(now)

	next := workday.ActiveTimer{
		UserID:          userID,
		CompanyID:       companyID,
		WorkdayID:       timer.WorkdayID,
		StartTime:       now,
		IsBreak:         timer.IsBreak,
		WorkDescription: req.WorkDescription,
		TaskID:          req.TaskID,
		IsOvertime:      req.IsOvertime,
		QRCodeID:        timer.QRCodeID,
	}
	if next.IsBreak {
		next.BreakStartTime = &now
	}
	if next.IsOvertime {
		next.OvertimeStartTime = &now
	}

	var saved workday.WorkSession
	var reopened workday.ActiveTimer
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		saved, err = s.SessionRepository.Append(txCtx, session)
		if err != nil {
			return fmt.Errorf("failed to append session: %w", err)
		}
		if err := s.WorkdayRepository.AddToTotals(txCtx, timer.WorkdayID, saved.WorkedHours(), saved.OvertimeHours()); err != nil {
			return fmt.Errorf("failed to update workday totals: %w", err)
		}
		if err := s.ActiveTimerRepository.Delete(txCtx, timer.ID); err != nil {
			return fmt.Errorf("failed to delete active timer: %w", err)
		}
		reopened, err = s.ActiveTimerRepository.Create(txCtx, next)
		if err != nil {
			return fmt.Errorf("failed to reopen active timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return workday.SplitTimerResponse{}, err
	}

	return workday.SplitTimerResponse{
		ClosedSession: mapSessionToResponse(saved, s.loc),
		Timer:         mapTimerToResponse(reopened, now, s.loc),
	}, nil
}

// Stop implements workday.TimerService.
// Finalization is all-or-nothing: session append, totals update and timer
// removal happen in one transaction.
func (s *TimerServiceImpl) Stop(ctx context.Context) (workday.StopTimerResponse, error) {
	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return workday.StopTimerResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return workday.StopTimerResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer == nil {
		return workday.StopTimerResponse{}, workday.ErrNoActiveTimer
	}

	now := s.clock().UTC()
	session := timer.Finalize(now)

	var saved workday.WorkSession
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		saved, err = s.SessionRepository.Append(txCtx, session)
		if err != nil {
			return fmt.Errorf("failed to append session: %w", err)
		}
		if err := s.WorkdayRepository.AddToTotals(txCtx, timer.WorkdayID, saved.WorkedHours(), saved.OvertimeHours()); err != nil {
			return fmt.Errorf("failed to update workday totals: %w", err)
		}
		if err := s.ActiveTimerRepository.Delete(txCtx, timer.ID); err != nil {
			return fmt.Errorf("failed to delete active timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return workday.StopTimerResponse{}, err
	}

	dayResponse, err := s.loadWorkdayResponse(ctx, timer.WorkdayID, companyID)
	if err != nil {
		return workday.StopTimerResponse{}, err
	}

	return workday.StopTimerResponse{
		Session: mapSessionToResponse(saved, s.loc),
		Workday: dayResponse,
	}, nil
}

// GetActive implements workday.TimerService.
func (s *TimerServiceImpl) GetActive(ctx context.Context) (*workday.ActiveTimerResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer == nil {
		return nil, nil
	}

	resp := mapTimerToResponse(*timer, s.clock().UTC(), s.loc)
	return &resp, nil
}

// DeleteSession implements workday.TimerService.
// Removing a session reverses its contribution to both totals; the derived
// display ranges shrink on the next read without any string surgery.
func (s *TimerServiceImpl) DeleteSession(ctx context.Context, sessionID string) (workday.WorkdayResponse, error) {
	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	session, err := s.SessionRepository.GetByID(ctx, sessionID, userID, companyID)
	if err != nil {
		if errors.Is(err, workday.ErrSessionNotFound) {
			return workday.WorkdayResponse{}, workday.ErrSessionNotFound
		}
		return workday.WorkdayResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.SessionRepository.Delete(txCtx, sessionID, userID, companyID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if err := s.WorkdayRepository.AddToTotals(txCtx, session.WorkdayID, -session.WorkedHours(), -session.OvertimeHours()); err != nil {
			return fmt.Errorf("failed to update workday totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	return s.loadWorkdayResponse(ctx, session.WorkdayID, companyID)
}

// UpsertManualEntry implements workday.TimerService.
func (s *TimerServiceImpl) UpsertManualEntry(ctx context.Context, req workday.ManualEntryRequest) (workday.WorkdayResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.WorkdayResponse{}, err
	}

	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	date, _ := time.Parse("2006-01-02", req.Date)

	day, err := s.WorkdayRepository.UpsertManualEntry(ctx, workday.Workday{
		CompanyID:        companyID,
		UserID:           userID,
		Date:             date,
		HoursWorked:      req.HoursWorked,
		AdditionalWorked: req.AdditionalWorked,
		AbsenceType:      req.AbsenceType,
		Notes:            req.Notes,
		ManualEntry:      true,
	})
	if err != nil {
		return workday.WorkdayResponse{}, fmt.Errorf("failed to upsert manual entry: %w", err)
	}

	return mapWorkdayToResponse(day, s.loc), nil
}

func (s *TimerServiceImpl) loadWorkdayResponse(ctx context.Context, workdayID, companyID string) (workday.WorkdayResponse, error) {
	day, err := s.WorkdayRepository.GetByID(ctx, workdayID, companyID)
	if err != nil {
		return workday.WorkdayResponse{}, fmt.Errorf("failed to get workday: %w", err)
	}
	sessions, err := s.SessionRepository.ListByWorkday(ctx, workdayID)
	if err != nil {
		return workday.WorkdayResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	day.Sessions = sessions
	return mapWorkdayToResponse(day, s.loc), nil
}

// mapTimerToResponse converts an ActiveTimer entity to its response shape,
// with break/overtime counters live as of now.
func mapTimerToResponse(t workday.ActiveTimer, now time.Time, loc *time.Location) workday.ActiveTimerResponse {
	return workday.ActiveTimerResponse{
		ID:              t.ID,
		Date:            workday.DayOf(t.StartTime, loc).Format("2006-01-02"),
		StartTime:       t.StartTime.In(loc).Format("2006-01-02 15:04:05"),
		ElapsedSeconds:  int64(now.Sub(t.StartTime).Seconds()),
		IsBreak:         t.IsBreak,
		BreakSeconds:    t.BreakSecondsAt(now),
		IsOvertime:      t.IsOvertime,
		OvertimeSeconds: t.OvertimeSecondsAt(now),
		WorkDescription: t.WorkDescription,
		TaskID:          t.TaskID,
		QRCodeID:        t.QRCodeID,
	}
}

func mapSessionToResponse(s workday.WorkSession, loc *time.Location) workday.SessionResponse {
	return workday.SessionResponse{
		ID:              s.ID,
		StartTime:       s.StartTime.In(loc).Format("2006-01-02 15:04:05"),
		EndTime:         s.EndTime.In(loc).Format("2006-01-02 15:04:05"),
		DisplayRange:    s.DisplayRange(loc),
		IsBreak:         s.IsBreak,
		BreakSeconds:    s.BreakSeconds,
		IsOvertime:      s.IsOvertime,
		OvertimeSeconds: s.OvertimeSeconds,
		WorkedHours:     s.WorkedHours(),
		WorkDescription: s.WorkDescription,
		TaskID:          s.TaskID,
		QRCodeID:        s.QRCodeID,
	}
}

func mapWorkdayToResponse(day workday.Workday, loc *time.Location) workday.WorkdayResponse {
	sessions := make([]workday.SessionResponse, 0, len(day.Sessions))
	for _, s := range day.Sessions {
		sessions = append(sessions, mapSessionToResponse(s, loc))
	}

	return workday.WorkdayResponse{
		ID:               day.ID,
		Date:             day.Date.Format("2006-01-02"),
		HoursWorked:      day.HoursWorked,
		AdditionalWorked: day.AdditionalWorked,
		WorkedRanges:     workday.WorkedRanges(day.Sessions, loc),
		AbsenceType:      day.AbsenceType,
		Notes:            day.Notes,
		ManualEntry:      day.ManualEntry,
		Sessions:         sessions,
	}
}

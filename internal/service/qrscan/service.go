package qrscan

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/qrcode"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/userlock"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/service/timer"
)

// ScanServiceImpl bridges physical badge scans onto the timer state machine.
// An entry scan starts a timer bound to the QR code; the matching exit scan
// stops it. When the exit finds no bound timer, the raw entry/exit pair alone
// becomes a plain session.
type ScanServiceImpl struct {
	tx database.TxRunner
	qrcode.QRCodeRepository
	qrcode.ScanEventRepository
	workday.WorkdayRepository
	workday.SessionRepository
	workday.ActiveTimerRepository
	gate  *timer.StartGate
	locks *userlock.Locker
	loc   *time.Location
	clock func() time.Time
}

func NewScanService(
	tx database.TxRunner,
	qrRepo qrcode.QRCodeRepository,
	scanRepo qrcode.ScanEventRepository,
	workdayRepo workday.WorkdayRepository,
	sessionRepo workday.SessionRepository,
	activeTimerRepo workday.ActiveTimerRepository,
	gate *timer.StartGate,
	locks *userlock.Locker,
	loc *time.Location,
) qrcode.ScanService {
	return &ScanServiceImpl{
		tx:                    tx,
		QRCodeRepository:      qrRepo,
		ScanEventRepository:   scanRepo,
		WorkdayRepository:     workdayRepo,
		SessionRepository:     sessionRepo,
		ActiveTimerRepository: activeTimerRepo,
		gate:                  gate,
		locks:                 locks,
		loc:                   loc,
		clock:                 time.Now,
	}
}

// Scan implements qrcode.ScanService.
func (s *ScanServiceImpl) Scan(ctx context.Context, req qrcode.ScanRequest) (qrcode.ScanResponse, error) {
	if err := req.Validate(); err != nil {
		return qrcode.ScanResponse{}, err
	}

	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return qrcode.ScanResponse{}, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	code, err := s.QRCodeRepository.GetByCode(ctx, req.Code, companyID)
	if err != nil {
		return qrcode.ScanResponse{}, err
	}
	if !code.Active {
		return qrcode.ScanResponse{}, qrcode.ErrQRCodeInactive
	}

	now := s.clock().UTC()
	date := workday.DayOf(now, s.loc)

	open, err := s.ScanEventRepository.GetOpenForUser(ctx, userID, companyID)
	if err != nil {
		return qrcode.ScanResponse{}, fmt.Errorf("failed to get open scan entry: %w", err)
	}

	if open == nil {
		return s.recordEntry(ctx, userID, companyID, code, date, now)
	}
	return s.recordExit(ctx, userID, companyID, code, *open, now)
}

func (s *ScanServiceImpl) recordEntry(ctx context.Context, userID, companyID string, code qrcode.QRCode, date, now time.Time) (qrcode.ScanResponse, error) {
	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return qrcode.ScanResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}
	if timer != nil {
		return qrcode.ScanResponse{}, workday.ErrTimerAlreadyRunning
	}

	decision, err := s.gate.Evaluate(ctx, userID, companyID, date)
	if err != nil {
		return qrcode.ScanResponse{}, err
	}
	if !decision.Allowed {
		return qrcode.ScanResponse{}, &workday.PolicyDeniedError{
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

		if _, err := s.ScanEventRepository.Create(txCtx, qrcode.ScanEvent{
			CompanyID: companyID,
			UserID:    userID,
			QRCodeID:  code.ID,
			ScanDate:  date,
			EntryAt:   now,
		}); err != nil {
			return fmt.Errorf("failed to record scan entry: %w", err)
		}

		created, err = s.ActiveTimerRepository.Create(txCtx, workday.ActiveTimer{
			UserID:          userID,
			CompanyID:       companyID,
			WorkdayID:       day.ID,
			StartTime:       now,
			WorkDescription: code.Label,
			QRCodeID:        &code.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to create active timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return qrcode.ScanResponse{}, err
	}

	timerResp := mapTimerToResponse(created, now, s.loc)
	return qrcode.ScanResponse{
		Type:     qrcode.ScanTypeEntry,
		ScanTime: now.In(s.loc).Format("2006-01-02 15:04:05"),
		Timer:    &timerResp,
	}, nil
}

func (s *ScanServiceImpl) recordExit(ctx context.Context, userID, companyID string, code qrcode.QRCode, open qrcode.ScanEvent, now time.Time) (qrcode.ScanResponse, error) {
	timer, err := s.ActiveTimerRepository.GetByUser(ctx, userID)
	if err != nil {
		return qrcode.ScanResponse{}, fmt.Errorf("failed to get active timer: %w", err)
	}

	// The timer path applies only when the open timer is the one this QR code
	// opened. A manually started timer is left alone and the raw pair falls
	// back to a derived session.
	if timer != nil && timer.QRCodeID != nil && *timer.QRCodeID == code.ID {
		session := timer.Finalize(now)

		var saved workday.WorkSession
		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := s.ScanEventRepository.CloseExit(txCtx, open.ID, now); err != nil {
				return fmt.Errorf("failed to close scan entry: %w", err)
			}
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
			return qrcode.ScanResponse{}, err
		}

		sessionResp := mapSessionToResponse(saved, s.loc)
		return qrcode.ScanResponse{
			Type:     qrcode.ScanTypeExit,
			ScanTime: now.In(s.loc).Format("2006-01-02 15:04:05"),
			Session:  &sessionResp,
		}, nil
	}

	// Legacy fallback: no bound timer, so the pair's wall time becomes a plain
	// session on the entry day. No break or overtime fidelity.
	var saved workday.WorkSession
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ScanEventRepository.CloseExit(txCtx, open.ID, now); err != nil {
			return fmt.Errorf("failed to close scan entry: %w", err)
		}

		day, err := s.WorkdayRepository.GetByUserAndDate(txCtx, userID, open.ScanDate, companyID)
		if err != nil {
			return fmt.Errorf("failed to get workday: %w", err)
		}
		if day == nil {
			newDay, err := s.WorkdayRepository.Create(txCtx, workday.Workday{
				CompanyID: companyID,
				UserID:    userID,
				Date:      open.ScanDate,
			})
			if err != nil {
				return fmt.Errorf("failed to create workday: %w", err)
			}
			day = &newDay
		}

		saved, err = s.SessionRepository.Append(txCtx, workday.WorkSession{
			WorkdayID:       day.ID,
			StartTime:       open.EntryAt,
			EndTime:         now,
			WorkDescription: code.Label,
			QRCodeID:        &open.QRCodeID,
		})
		if err != nil {
			return fmt.Errorf("failed to append session: %w", err)
		}
		if err := s.WorkdayRepository.AddToTotals(txCtx, day.ID, saved.WorkedHours(), saved.OvertimeHours()); err != nil {
			return fmt.Errorf("failed to update workday totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return qrcode.ScanResponse{}, err
	}

	sessionResp := mapSessionToResponse(saved, s.loc)
	return qrcode.ScanResponse{
		Type:           qrcode.ScanTypeExit,
		ScanTime:       now.In(s.loc).Format("2006-01-02 15:04:05"),
		Session:        &sessionResp,
		LegacyFallback: true,
	}, nil
}

func callerFromContext(ctx context.Context) (string, string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return userID, companyID, nil
}

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

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type activeTimerRepository struct {
	db *database.DB
}

func NewActiveTimerRepository(db *database.DB) workday.ActiveTimerRepository {
	return &activeTimerRepository{db: db}
}

// GetByUser implements workday.ActiveTimerRepository.
func (r *activeTimerRepository) GetByUser(ctx context.Context, userID string) (*workday.ActiveTimer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, company_id, workday_id, start_time,
			   is_break, break_start_time, total_break_seconds,
			   is_overtime, overtime_start_time, total_overtime_seconds,
			   work_description, task_id, qr_code_id, created_at, updated_at
		FROM active_timers
		WHERE user_id = $1
	`

	var t workday.ActiveTimer
	err := q.QueryRow(ctx, query, userID).Scan(
		&t.ID, &t.UserID, &t.CompanyID, &t.WorkdayID, &t.StartTime,
		&t.IsBreak, &t.BreakStartTime, &t.TotalBreakSeconds,
		&t.IsOvertime, &t.OvertimeStartTime, &t.TotalOvertimeSeconds,
		&t.WorkDescription, &t.TaskID, &t.QRCodeID, &t.CreatedAt, &t.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active timer: %w", err)
	}

	return &t, nil
}

// Create implements workday.ActiveTimerRepository.
// The unique index on user_id backs up the service-level check; a concurrent
// start loses the race here instead of producing two open timers.
func (r *activeTimerRepository) Create(ctx context.Context, timer workday.ActiveTimer) (workday.ActiveTimer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO active_timers (
			user_id, company_id, workday_id, start_time,
			is_break, break_start_time, total_break_seconds,
			is_overtime, overtime_start_time, total_overtime_seconds,
			work_description, task_id, qr_code_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		timer.UserID,
		timer.CompanyID,
		timer.WorkdayID,
		timer.StartTime,
		timer.IsBreak,
		timer.BreakStartTime,
		timer.TotalBreakSeconds,
		timer.IsOvertime,
		timer.OvertimeStartTime,
		timer.TotalOvertimeSeconds,
		timer.WorkDescription,
		timer.TaskID,
		timer.QRCodeID,
	).Scan(&timer.ID, &timer.CreatedAt, &timer.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return workday.ActiveTimer{}, workday.ErrTimerAlreadyRunning
		}
		return workday.ActiveTimer{}, fmt.Errorf("failed to create active timer: %w", err)
	}

	return timer, nil
}

// Update implements workday.ActiveTimerRepository.
func (r *activeTimerRepository) Update(ctx context.Context, timer workday.ActiveTimer) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE active_timers
		SET is_break = $2,
			break_start_time = $3,
			total_break_seconds = $4,
			is_overtime = $5,
			overtime_start_time = $6,
			total_overtime_seconds = $7,
			work_description = $8,
			task_id = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		timer.ID,
		timer.IsBreak,
		timer.BreakStartTime,
		timer.TotalBreakSeconds,
		timer.IsOvertime,
		timer.OvertimeStartTime,
		timer.TotalOvertimeSeconds,
		timer.WorkDescription,
		timer.TaskID,
	)
	if err != nil {
		return fmt.Errorf("failed to update active timer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return workday.ErrNoActiveTimer
	}

	return nil
}

// Delete implements workday.ActiveTimerRepository.
func (r *activeTimerRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM active_timers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete active timer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return workday.ErrNoActiveTimer
	}

	return nil
}

package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type workdayRepository struct {
	db *database.DB
}

func NewWorkdayRepository(db *database.DB) workday.WorkdayRepository {
	return &workdayRepository{db: db}
}

// Create implements workday.WorkdayRepository.
func (r *workdayRepository) Create(ctx context.Context, day workday.Workday) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO workdays (
			company_id, user_id, work_date, hours_worked, additional_worked,
			absence_type, notes, manual_entry
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.CompanyID,
		day.UserID,
		day.Date,
		day.HoursWorked,
		day.AdditionalWorked,
		day.AbsenceType,
		day.Notes,
		day.ManualEntry,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return workday.Workday{}, fmt.Errorf("failed to create workday: %w", err)
	}

	return day, nil
}

// GetByID implements workday.WorkdayRepository.
func (r *workdayRepository) GetByID(ctx context.Context, id string, companyID string) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, user_id, work_date, hours_worked, additional_worked,
			   absence_type, notes, manual_entry, created_at, updated_at
		FROM workdays
		WHERE id = $1
		  AND company_id = $2
	`

	var day workday.Workday
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&day.ID, &day.CompanyID, &day.UserID, &day.Date, &day.HoursWorked, &day.AdditionalWorked,
		&day.AbsenceType, &day.Notes, &day.ManualEntry, &day.CreatedAt, &day.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return workday.Workday{}, workday.ErrWorkdayNotFound
		}
		return workday.Workday{}, fmt.Errorf("failed to get workday: %w", err)
	}

	return day, nil
}

// GetByUserAndDate implements workday.WorkdayRepository.
func (r *workdayRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time, companyID string) (*workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, user_id, work_date, hours_worked, additional_worked,
			   absence_type, notes, manual_entry, created_at, updated_at
		FROM workdays
		WHERE user_id = $1
		  AND work_date = $2
		  AND company_id = $3
	`

	var day workday.Workday
	err := q.QueryRow(ctx, query, userID, date, companyID).Scan(
		&day.ID, &day.CompanyID, &day.UserID, &day.Date, &day.HoursWorked, &day.AdditionalWorked,
		&day.AbsenceType, &day.Notes, &day.ManualEntry, &day.CreatedAt, &day.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workday by date: %w", err)
	}

	return &day, nil
}

// AddToTotals implements workday.WorkdayRepository.
func (r *workdayRepository) AddToTotals(ctx context.Context, id string, hoursDelta float64, additionalDelta float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE workdays
		SET hours_worked = GREATEST(hours_worked + $2, 0),
			additional_worked = GREATEST(additional_worked + $3, 0),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, hoursDelta, additionalDelta)
	if err != nil {
		return fmt.Errorf("failed to update workday totals: %w", err)
	}

	if result.RowsAffected() == 0 {
		return workday.ErrWorkdayNotFound
	}

	return nil
}

// UpsertManualEntry implements workday.WorkdayRepository.
func (r *workdayRepository) UpsertManualEntry(ctx context.Context, day workday.Workday) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO workdays (
			company_id, user_id, work_date, hours_worked, additional_worked,
			absence_type, notes, manual_entry
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, TRUE
		)
		ON CONFLICT (user_id, work_date) DO UPDATE
		SET hours_worked = EXCLUDED.hours_worked,
			additional_worked = EXCLUDED.additional_worked,
			absence_type = EXCLUDED.absence_type,
			notes = EXCLUDED.notes,
			manual_entry = TRUE,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.CompanyID,
		day.UserID,
		day.Date,
		day.HoursWorked,
		day.AdditionalWorked,
		day.AbsenceType,
		day.Notes,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return workday.Workday{}, fmt.Errorf("failed to upsert manual entry: %w", err)
	}

	day.ManualEntry = true
	return day, nil
}

// ListForRange implements workday.WorkdayRepository.
func (r *workdayRepository) ListForRange(ctx context.Context, userID string, from time.Time, to time.Time, companyID string) ([]workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, user_id, work_date, hours_worked, additional_worked,
			   absence_type, notes, manual_entry, created_at, updated_at
		FROM workdays
		WHERE user_id = $1
		  AND work_date >= $2
		  AND work_date < $3
		  AND company_id = $4
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workdays: %w", err)
	}
	defer rows.Close()

	var days []workday.Workday
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var day workday.Workday
		if err := rows.Scan(
			&day.ID, &day.CompanyID, &day.UserID, &day.Date, &day.HoursWorked, &day.AdditionalWorked,
			&day.AbsenceType, &day.Notes, &day.ManualEntry, &day.CreatedAt, &day.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workday: %w", err)
		}
		index[day.ID] = len(days)
		ids = append(ids, day.ID)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workdays: %w", err)
	}

	if len(days) == 0 {
		return days, nil
	}

	sessionQuery := `
		SELECT id, workday_id, start_time, end_time, is_break, break_seconds,
			   is_overtime, overtime_seconds, work_description, task_id, qr_code_id, created_at
		FROM work_sessions
		WHERE workday_id = ANY($1)
		ORDER BY start_time ASC
	`

	sessionRows, err := q.Query(ctx, sessionQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer sessionRows.Close()

	for sessionRows.Next() {
		var s workday.WorkSession
		if err := sessionRows.Scan(
			&s.ID, &s.WorkdayID, &s.StartTime, &s.EndTime, &s.IsBreak, &s.BreakSeconds,
			&s.IsOvertime, &s.OvertimeSeconds, &s.WorkDescription, &s.TaskID, &s.QRCodeID, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		i := index[s.WorkdayID]
		days[i].Sessions = append(days[i].Sessions, s)
	}
	if err := sessionRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return days, nil
}

package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) workday.SessionRepository {
	return &sessionRepository{db: db}
}

// Append implements workday.SessionRepository.
func (r *sessionRepository) Append(ctx context.Context, session workday.WorkSession) (workday.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_sessions (
			workday_id, start_time, end_time, is_break, break_seconds,
			is_overtime, overtime_seconds, work_description, task_id, qr_code_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		session.WorkdayID,
		session.StartTime,
		session.EndTime,
		session.IsBreak,
		session.BreakSeconds,
		session.IsOvertime,
		session.OvertimeSeconds,
		session.WorkDescription,
		session.TaskID,
		session.QRCodeID,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return workday.WorkSession{}, fmt.Errorf("failed to append session: %w", err)
	}

	return session, nil
}

// GetByID implements workday.SessionRepository.
// Owner and company scoping go through the owning workday, sessions carry
// neither column of their own.
func (r *sessionRepository) GetByID(ctx context.Context, id string, userID string, companyID string) (workday.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.workday_id, s.start_time, s.end_time, s.is_break, s.break_seconds,
			   s.is_overtime, s.overtime_seconds, s.work_description, s.task_id, s.qr_code_id, s.created_at
		FROM work_sessions s
		JOIN workdays w ON w.id = s.workday_id
		WHERE s.id = $1
		  AND w.user_id = $2
		  AND w.company_id = $3
	`

	var session workday.WorkSession
	err := q.QueryRow(ctx, query, id, userID, companyID).Scan(
		&session.ID, &session.WorkdayID, &session.StartTime, &session.EndTime, &session.IsBreak, &session.BreakSeconds,
		&session.IsOvertime, &session.OvertimeSeconds, &session.WorkDescription, &session.TaskID, &session.QRCodeID, &session.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return workday.WorkSession{}, workday.ErrSessionNotFound
		}
		return workday.WorkSession{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListByWorkday implements workday.SessionRepository.
func (r *sessionRepository) ListByWorkday(ctx context.Context, workdayID string) ([]workday.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, workday_id, start_time, end_time, is_break, break_seconds,
			   is_overtime, overtime_seconds, work_description, task_id, qr_code_id, created_at
		FROM work_sessions
		WHERE workday_id = $1
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, workdayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []workday.WorkSession
	for rows.Next() {
		var s workday.WorkSession
		if err := rows.Scan(
			&s.ID, &s.WorkdayID, &s.StartTime, &s.EndTime, &s.IsBreak, &s.BreakSeconds,
			&s.IsOvertime, &s.OvertimeSeconds, &s.WorkDescription, &s.TaskID, &s.QRCodeID, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// Delete implements workday.SessionRepository.
func (r *sessionRepository) Delete(ctx context.Context, id string, userID string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM work_sessions s
		USING workdays w
		WHERE s.id = $1
		  AND w.id = s.workday_id
		  AND w.user_id = $2
		  AND w.company_id = $3
	`

	result, err := q.Exec(ctx, query, id, userID, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return workday.ErrSessionNotFound
	}

	return nil
}

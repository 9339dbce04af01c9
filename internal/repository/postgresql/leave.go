package postgresql

import (
	"context"
	"fmt"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/leave"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// GetApprovedRanges implements leave.LeaveRepository.
func (r *leaveRepository) GetApprovedRanges(ctx context.Context, userID string, companyID string) ([]leave.Range, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT start_date, end_date
		FROM leave_requests
		WHERE user_id = $1
		  AND company_id = $2
		  AND status = 'approved'
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave ranges: %w", err)
	}
	defer rows.Close()

	var ranges []leave.Range
	for rows.Next() {
		var lr leave.Range
		if err := rows.Scan(&lr.StartDate, &lr.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan leave range: %w", err)
		}
		ranges = append(ranges, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave ranges: %w", err)
	}

	return ranges, nil
}

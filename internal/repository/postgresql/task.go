package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/task"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type taskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepository{db: db}
}

// GetByID implements task.TaskRepository.
func (r *taskRepository) GetByID(ctx context.Context, id string, companyID string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, title
		FROM tasks
		WHERE id = $1
		  AND company_id = $2
	`

	var t task.Task
	err := q.QueryRow(ctx, query, id, companyID).Scan(&t.ID, &t.CompanyID, &t.Title)

	if err != nil {
		if err == pgx.ErrNoRows {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

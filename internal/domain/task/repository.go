package task

import "context"

// TaskRepository resolves task labels (read-only).
type TaskRepository interface {
	// GetByID retrieves a task with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Task, error)
}

package task

// Task is a label target for timer sessions; managed by the kanban features
// upstream, read-only here.
type Task struct {
	ID        string
	CompanyID string
	Title     string
}

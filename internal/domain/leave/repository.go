package leave

import "context"

// LeaveRepository is the leave-overlap policy source (read-only).
type LeaveRepository interface {
	// GetApprovedRanges returns the user's accepted absence ranges
	GetApprovedRanges(ctx context.Context, userID string, companyID string) ([]Range, error)
}

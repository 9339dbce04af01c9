package report

import "context"

// ReportService derives read-only aggregations from the session ledger
type ReportService interface {
	// SessionsForRange groups the caller's sessions for a month by task or
	// normalized description
	SessionsForRange(ctx context.Context, req SessionsForRangeRequest) (SessionsForRangeResponse, error)
}

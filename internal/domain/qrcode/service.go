package qrcode

import "context"

// ScanService maps physical badge scans onto the timer state machine
type ScanService interface {
	// Scan records a check-in or check-out depending on whether the user has
	// an open raw entry for today
	Scan(ctx context.Context, req ScanRequest) (ScanResponse, error)
}

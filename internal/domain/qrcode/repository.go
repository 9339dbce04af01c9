package qrcode

import (
	"context"
	"time"
)

// QRCodeRepository resolves physical check-in points (read-only).
type QRCodeRepository interface {
	// GetByCode retrieves a QR code by its printed token with company isolation
	GetByCode(ctx context.Context, code string, companyID string) (QRCode, error)
}

// ScanEventRepository manages raw entry/exit pairs.
type ScanEventRepository interface {
	// Create records a raw entry
	Create(ctx context.Context, event ScanEvent) (ScanEvent, error)

	// GetOpenForUser returns the user's latest entry without a matching exit,
	// or nil. Not date-scoped, so a shift entered before midnight can still be
	// closed after it
	GetOpenForUser(ctx context.Context, userID string, companyID string) (*ScanEvent, error)

	// CloseExit stamps the exit time on an open entry
	CloseExit(ctx context.Context, id string, exitAt time.Time) error
}

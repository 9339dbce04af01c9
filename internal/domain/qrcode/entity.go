package qrcode

import "time"

// QRCode is a physical check-in/out point. Tenant-scoped, identified by its
// printed token; it has no behavior beyond identity and active status.
type QRCode struct {
	ID        string
	CompanyID string
	Code      string
	Label     string
	Active    bool
	CreatedAt time.Time
}

// ScanEvent is one raw badge entry, paired with its exit once the user scans
// again the same day. Kept independently of the timer so the legacy fallback
// can derive a session from the pair alone.
type ScanEvent struct {
	ID        string
	CompanyID string
	UserID    string
	QRCodeID  string
	ScanDate  time.Time
	EntryAt   time.Time
	ExitAt    *time.Time
}

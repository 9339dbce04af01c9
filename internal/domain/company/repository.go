package company

import (
	"context"
	"time"
)

// SettingsRepository is the holiday/weekend policy source (read-only).
type SettingsRepository interface {
	// GetSettings returns the tenant's work policy
	GetSettings(ctx context.Context, companyID string) (Settings, error)

	// IsHoliday answers whether the date is blocked for the tenant, counting
	// both public and tenant-custom holidays
	IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error)
}

package company

import "time"

// Settings is the tenant policy the start gate consumes. Tenant administration
// itself lives upstream; this system only reads.
type Settings struct {
	CompanyID      string
	WorkOnWeekends bool
	UpdatedAt      time.Time
}

// Holiday is a blocked calendar date, either public (company-independent) or
// tenant-custom.
type Holiday struct {
	ID        string
	CompanyID *string // nil for public holidays
	Date      time.Time
	Name      string
}

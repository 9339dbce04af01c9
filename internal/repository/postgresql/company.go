package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/company"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type companySettingsRepository struct {
	db *database.DB
}

func NewCompanySettingsRepository(db *database.DB) company.SettingsRepository {
	return &companySettingsRepository{db: db}
}

// GetSettings implements company.SettingsRepository.
// A company without a settings row gets the defaults.
func (r *companySettingsRepository) GetSettings(ctx context.Context, companyID string) (company.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, work_on_weekends, updated_at
		FROM company_settings
		WHERE company_id = $1
	`

	var settings company.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&settings.CompanyID, &settings.WorkOnWeekends, &settings.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Settings{CompanyID: companyID}, nil
		}
		return company.Settings{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	return settings, nil
}

// IsHoliday implements company.SettingsRepository.
// Matches both public holidays (company_id IS NULL) and the tenant's own.
func (r *companySettingsRepository) IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM holidays
			WHERE holiday_date = $1
			  AND (company_id IS NULL OR company_id = $2)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, date, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}

	return exists, nil
}

package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/qrcode"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type scanEventRepository struct {
	db *database.DB
}

func NewScanEventRepository(db *database.DB) qrcode.ScanEventRepository {
	return &scanEventRepository{db: db}
}

// Create implements qrcode.ScanEventRepository.
func (r *scanEventRepository) Create(ctx context.Context, event qrcode.ScanEvent) (qrcode.ScanEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO qr_scan_events (
			company_id, user_id, qr_code_id, scan_date, entry_at, exit_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id
	`

	err := q.QueryRow(ctx, query,
		event.CompanyID,
		event.UserID,
		event.QRCodeID,
		event.ScanDate,
		event.EntryAt,
		event.ExitAt,
	).Scan(&event.ID)

	if err != nil {
		return qrcode.ScanEvent{}, fmt.Errorf("failed to create scan event: %w", err)
	}

	return event, nil
}

// GetOpenForUser implements qrcode.ScanEventRepository.
func (r *scanEventRepository) GetOpenForUser(ctx context.Context, userID string, companyID string) (*qrcode.ScanEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, user_id, qr_code_id, scan_date, entry_at, exit_at
		FROM qr_scan_events
		WHERE user_id = $1
		  AND company_id = $2
		  AND exit_at IS NULL
		ORDER BY entry_at DESC
		LIMIT 1
	`

	var event qrcode.ScanEvent
	err := q.QueryRow(ctx, query, userID, companyID).Scan(
		&event.ID, &event.CompanyID, &event.UserID, &event.QRCodeID, &event.ScanDate, &event.EntryAt, &event.ExitAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open scan event: %w", err)
	}

	return &event, nil
}

// CloseExit implements qrcode.ScanEventRepository.
func (r *scanEventRepository) CloseExit(ctx context.Context, id string, exitAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE qr_scan_events
		SET exit_at = $2
		WHERE id = $1
		  AND exit_at IS NULL
	`

	result, err := q.Exec(ctx, query, id, exitAt)
	if err != nil {
		return fmt.Errorf("failed to close scan event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return qrcode.ErrScanEventNotFound
	}

	return nil
}

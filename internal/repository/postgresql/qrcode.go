package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/qrcode"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/database"
)

type qrCodeRepository struct {
	db *database.DB
}

func NewQRCodeRepository(db *database.DB) qrcode.QRCodeRepository {
	return &qrCodeRepository{db: db}
}

// GetByCode implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) GetByCode(ctx context.Context, code string, companyID string) (qrcode.QRCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, label, active, created_at
		FROM qr_codes
		WHERE code = $1
		  AND company_id = $2
	`

	var qr qrcode.QRCode
	err := q.QueryRow(ctx, query, code, companyID).Scan(
		&qr.ID, &qr.CompanyID, &qr.Code, &qr.Label, &qr.Active, &qr.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return qrcode.QRCode{}, qrcode.ErrQRCodeNotFound
		}
		return qrcode.QRCode{}, fmt.Errorf("failed to get qr code: %w", err)
	}

	return qr, nil
}

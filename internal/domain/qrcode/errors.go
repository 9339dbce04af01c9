package qrcode

import "errors"

// QR scan errors
var (
	ErrQRCodeNotFound    = errors.New("qr code not found")
	ErrQRCodeInactive    = errors.New("qr code is inactive")
	ErrScanEventNotFound = errors.New("scan entry not found")
)

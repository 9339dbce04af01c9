package http

import (
	"encoding/json"
	"net/http"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/qrcode"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/handler/http/response"
)

type QRScanHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
}

type qrScanHandlerImpl struct {
	scanService qrcode.ScanService
}

func NewQRScanHandler(scanService qrcode.ScanService) QRScanHandler {
	return &qrScanHandlerImpl{
		scanService: scanService,
	}
}

// Scan implements QRScanHandler.
func (h *qrScanHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req qrcode.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scanService.Scan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

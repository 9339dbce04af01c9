package http

import (
	"net/http"
	"strconv"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/report"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/handler/http/response"
)

type ReportHandler interface {
	Sessions(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Sessions implements ReportHandler.
func (h *reportHandlerImpl) Sessions(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'month' must be a number", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'year' must be a number", nil)
		return
	}

	result, err := h.reportService.SessionsForRange(r.Context(), report.SessionsForRangeRequest{
		Month: month,
		Year:  year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

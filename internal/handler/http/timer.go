package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/handler/http/response"
)

type TimerHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	PauseResume(w http.ResponseWriter, r *http.Request)
	ToggleOvertime(w http.ResponseWriter, r *http.Request)
	UpdateLabel(w http.ResponseWriter, r *http.Request)
	Split(w http.ResponseWriter, r *http.Request)
	Stop(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	CanStart(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
	UpsertManualEntry(w http.ResponseWriter, r *http.Request)
}

type timerHandlerImpl struct {
	timerService workday.TimerService
}

func NewTimerHandler(timerService workday.TimerService) TimerHandler {
	return &timerHandlerImpl{
		timerService: timerService,
	}
}

// Start implements TimerHandler.
func (h *timerHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req workday.StartTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	timer, err := h.timerService.Start(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timer started", timer)
}

// PauseResume implements TimerHandler.
func (h *timerHandlerImpl) PauseResume(w http.ResponseWriter, r *http.Request) {
	timer, err := h.timerService.PauseResume(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, timer)
}

// ToggleOvertime implements TimerHandler.
func (h *timerHandlerImpl) ToggleOvertime(w http.ResponseWriter, r *http.Request) {
	timer, err := h.timerService.ToggleOvertime(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, timer)
}

// UpdateLabel implements TimerHandler.
func (h *timerHandlerImpl) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	var req workday.UpdateLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	timer, err := h.timerService.UpdateActiveLabel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, timer)
}

// Split implements TimerHandler.
func (h *timerHandlerImpl) Split(w http.ResponseWriter, r *http.Request) {
	var req workday.SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timerService.Split(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stop implements TimerHandler.
func (h *timerHandlerImpl) Stop(w http.ResponseWriter, r *http.Request) {
	result, err := h.timerService.Stop(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetActive implements TimerHandler.
func (h *timerHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	timer, err := h.timerService.GetActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// nil means idle, not an error
	response.Success(w, timer)
}

// CanStart implements TimerHandler.
func (h *timerHandlerImpl) CanStart(w http.ResponseWriter, r *http.Request) {
	req := workday.CanStartRequest{
		Date: r.URL.Query().Get("date"),
	}

	decision, err := h.timerService.CanStart(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, decision)
}

// DeleteSession implements TimerHandler.
func (h *timerHandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		response.BadRequest(w, "Session ID is required", nil)
		return
	}

	day, err := h.timerService.DeleteSession(r.Context(), sessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session deleted", day)
}

// UpsertManualEntry implements TimerHandler.
func (h *timerHandlerImpl) UpsertManualEntry(w http.ResponseWriter, r *http.Request) {
	var req workday.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	day, err := h.timerService.UpsertManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, day)
}

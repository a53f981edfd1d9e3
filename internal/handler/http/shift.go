package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/auth"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
	"github.com/shiftlink/shiftlink-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	Schedule(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	AdjustHours(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.Service
}

func NewShiftHandler(shiftService shift.Service) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// actorFromContext rebuilds the caller identity from verified token claims.
func actorFromContext(r *http.Request) (shift.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return shift.Actor{}, auth.ErrInvalidToken
	}

	actor := shift.Actor{}
	if userID, ok := claims["user_id"].(string); ok {
		actor.UserID = userID
	}
	if workerID, ok := claims["worker_id"].(string); ok {
		actor.WorkerID = workerID
	}

	if actor.UserID == "" {
		return shift.Actor{}, auth.ErrInvalidToken
	}
	return actor, nil
}

// Schedule implements ShiftHandler.
func (h *shiftHandlerImpl) Schedule(w http.ResponseWriter, r *http.Request) {
	var req shift.ScheduleShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.Schedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift scheduled", result)
}

// ClockIn implements ShiftHandler.
func (h *shiftHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	shiftID := chi.URLParam(r, "shiftID")

	var req shift.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.ClockIn(r.Context(), actor, shiftID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock in successful", result)
}

// ClockOut implements ShiftHandler.
func (h *shiftHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	shiftID := chi.URLParam(r, "shiftID")

	var req shift.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.ClockOut(r.Context(), actor, shiftID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Complete implements ShiftHandler.
func (h *shiftHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "shiftID")

	result, err := h.shiftService.MarkComplete(r.Context(), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift completed", result)
}

// AdjustHours implements ShiftHandler.
func (h *shiftHandlerImpl) AdjustHours(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "shiftID")

	var req shift.AdjustHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.AdjustHours(r.Context(), shiftID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hours adjusted", result)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "shiftID")

	result, err := h.shiftService.GetShift(r.Context(), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := shift.ShiftFilter{}

	if workerID := r.URL.Query().Get("worker_id"); workerID != "" {
		filter.WorkerID = &workerID
	}
	if businessID := r.URL.Query().Get("business_id"); businessID != "" {
		filter.BusinessID = &businessID
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := shift.Status(statusStr)
		filter.Status = &status
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			response.BadRequest(w, "Invalid 'from' timestamp, expected RFC3339", nil)
			return
		}
		filter.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			response.BadRequest(w, "Invalid 'to' timestamp, expected RFC3339", nil)
			return
		}
		filter.To = &to
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	result, err := h.shiftService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Shifts, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

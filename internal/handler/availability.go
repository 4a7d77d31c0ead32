package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/roster"
)

func (h *Handler) SubmitAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		WeekStartDate string `json:"weekStartDate" validate:"required"`
		Items         []struct {
			DayDate         string `json:"dayDate" validate:"required"`
			ShiftTemplateID int64  `json:"shiftTemplateID" validate:"required"`
		} `json:"items" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := calendar.ParseDate(req.WeekStartDate)
	if err != nil {
		h.rosterError(w, r, roster.ErrInvalidWeekStart)
		return
	}
	weekStart = calendar.NormalizeToWeekStart(weekStart)

	submission := &domain.AvailabilitySubmission{
		WorkspaceID:   workspace.ID,
		UserID:        myInfo.ID,
		WeekStartDate: weekStart,
		Items:         make([]domain.AvailabilityItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		dayDate, err := calendar.ParseDate(item.DayDate)
		if err != nil {
			h.rosterError(w, r, calendar.ErrInvalidDate)
			return
		}
		// 所有空闲时间都必须落在所提交的那一周内
		if !calendar.NormalizeToWeekStart(dayDate).Equal(weekStart) {
			h.rosterError(w, r, calendar.ErrInvalidDate)
			return
		}
		submission.Items = append(submission.Items, domain.AvailabilityItem{
			DayDate:         dayDate,
			ShiftTemplateID: item.ShiftTemplateID,
		})
	}

	if err := h.repository.InsertAvailabilitySubmission(submission); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交空闲时间成功", submission)
}

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	sub, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	weekStart, err := calendar.ParseDate(r.URL.Query().Get("week"))
	if err != nil {
		h.rosterError(w, r, roster.ErrInvalidWeekStart)
		return
	}
	weekStart = calendar.NormalizeToWeekStart(weekStart)

	submission, err := h.repository.GetAvailabilitySubmission(sub, workspace.ID, weekStart)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 还没有提交过，不算错误
			h.successResponse(w, r, "本周还没有提交空闲时间", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取空闲时间成功", submission)
}

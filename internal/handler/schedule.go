package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/roster"
)

// parseWeekParam 解析请求中的周起始日期并归一化到周日。
func (h *Handler) parseWeekParam(raw string) (time.Time, error) {
	weekStart, err := calendar.ParseDate(raw)
	if err != nil {
		return time.Time{}, roster.ErrInvalidWeekStart
	}
	return calendar.NormalizeToWeekStart(weekStart), nil
}

func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	weekStart, err := h.parseWeekParam(r.URL.Query().Get("week"))
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	templates, err := h.repository.GetActiveShiftTemplates(workspace.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	submissions, err := h.repository.GetWeekSubmissions(workspace.ID, weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shifts, err := h.repository.GetWeekScheduledShifts(workspace.ID, weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	view := roster.BuildWeekView(workspace.ID, weekStart, templates, submissions, shifts)

	h.successResponse(w, r, "获取周班表成功", view)
}

func (h *Handler) AssignWorker(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		WeekStartDate   string `json:"weekStartDate" validate:"required"`
		DayDate         string `json:"dayDate" validate:"required"`
		ShiftTemplateID int64  `json:"shiftTemplateID" validate:"required"`
		WorkerID        int64  `json:"workerID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := h.parseWeekParam(req.WeekStartDate)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	dayDate, err := calendar.ParseDate(req.DayDate)
	if err != nil {
		h.rosterError(w, r, calendar.ErrInvalidDate)
		return
	}
	// 目标日期必须落在目标周内
	if !calendar.NormalizeToWeekStart(dayDate).Equal(weekStart) {
		h.rosterError(w, r, calendar.ErrInvalidDate)
		return
	}

	if err := roster.CheckDayWritable(dayDate, calendar.Today()); err != nil {
		h.rosterError(w, r, err)
		return
	}

	result, err := h.repository.AssignWorker(workspace.ID, weekStart, dayDate, req.ShiftTemplateID, req.WorkerID)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	if result.AlreadyAssigned {
		h.successResponse(w, r, "该员工已在此班次中", result)
		return
	}
	h.successResponse(w, r, "排班成功", result)
}

func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		ScheduledShiftID int64 `json:"scheduledShiftID" validate:"required"`
		WorkerID         int64 `json:"workerID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.RemoveAssignment(workspace.ID, req.ScheduledShiftID, req.WorkerID, calendar.Today()); err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "移除排班成功", nil)
}

func (h *Handler) SaveWeekSchedule(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		WeekStartDate string `json:"weekStartDate" validate:"required"`
		Shifts        []struct {
			DayDate           string  `json:"dayDate" validate:"required"`
			ShiftTemplateID   int64   `json:"shiftTemplateID" validate:"required"`
			RequiredCount     int32   `json:"requiredCount" validate:"gte=0"`
			AssignedWorkerIDs []int64 `json:"assignedWorkerIDs"`
		} `json:"shifts" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := h.parseWeekParam(req.WeekStartDate)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	shifts := make([]*domain.ScheduledShift, 0, len(req.Shifts))
	for _, s := range req.Shifts {
		dayDate, err := calendar.ParseDate(s.DayDate)
		if err != nil {
			h.rosterError(w, r, calendar.ErrInvalidDate)
			return
		}
		if !calendar.NormalizeToWeekStart(dayDate).Equal(weekStart) {
			h.rosterError(w, r, calendar.ErrInvalidDate)
			return
		}

		assigned := s.AssignedWorkerIDs
		if assigned == nil {
			assigned = make([]int64, 0)
		}
		shifts = append(shifts, &domain.ScheduledShift{
			WorkspaceID:       workspace.ID,
			WeekStartDate:     weekStart,
			DayDate:           dayDate,
			ShiftTemplateID:   s.ShiftTemplateID,
			RequiredCount:     s.RequiredCount,
			Status:            domain.ShiftStatusDraft,
			AssignedWorkerIDs: assigned,
		})
	}

	if err := h.repository.SaveWeekSchedule(workspace.ID, weekStart, shifts); err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存周班表成功", shifts)
}

func (h *Handler) PublishWeek(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		WeekStartDate string `json:"weekStartDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := h.parseWeekParam(req.WeekStartDate)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	// 无条件发布：人手不足不会阻止发布，前端负责提示
	if err := h.repository.SetWeekStatus(workspace.ID, weekStart, domain.ShiftStatusPublished); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 状态从班次行推导，没有任何班次实例的周发布后仍然是草稿
	status, err := h.repository.GetWeekStatus(workspace.ID, weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if status == domain.ShiftStatusPublished {
		if err := h.notifyWeekPublished(workspace, weekStart); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "发布周班表成功", map[string]any{
		"weekStartDate": calendar.FormatDate(weekStart),
		"weekStatus":    status,
	})
}

func (h *Handler) UnpublishWeek(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		WeekStartDate string `json:"weekStartDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := h.parseWeekParam(req.WeekStartDate)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	if err := h.repository.SetWeekStatus(workspace.ID, weekStart, domain.ShiftStatusDraft); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	status, err := h.repository.GetWeekStatus(workspace.ID, weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "撤回周班表成功", map[string]any{
		"weekStartDate": calendar.FormatDate(weekStart),
		"weekStatus":    status,
	})
}

// notifyWeekPublished 给本周被排了班的每位员工发送发布通知邮件。
func (h *Handler) notifyWeekPublished(workspace *domain.Workspace, weekStart time.Time) error {
	workers, err := h.repository.GetWeekAssignedWorkers(workspace.ID, weekStart)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	for _, worker := range workers {
		mailMessage := domain.MailMessage{
			Type: "roster_published",
			To:   worker.Email,
			Data: domain.RosterPublishedMailData{
				FullName:      worker.FullName,
				WorkspaceName: workspace.Name,
				WeekStartDate: calendar.FormatDate(weekStart),
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		if err := h.mailChannel.PublishWithContext(
			ctx,
			"",
			h.config.RabbitMQ.MailQueue,
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		); err != nil {
			return err
		}
	}

	return nil
}

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/utils"
)

func (h *Handler) GetShiftTemplates(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	templates, err := h.repository.GetShiftTemplatesByWorkspaceID(workspace.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次模板列表成功", templates)
}

func (h *Handler) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		DayOfWeek     int32  `json:"dayOfWeek" validate:"gte=0,lte=6"`
		Name          string `json:"name" validate:"required"`
		StartTime     string `json:"startTime" validate:"required"`
		EndTime       string `json:"endTime" validate:"required"`
		SortOrder     int32  `json:"sortOrder"`
		RequiredCount int32  `json:"requiredCount" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := &domain.ShiftTemplate{
		WorkspaceID:   workspace.ID,
		DayOfWeek:     req.DayOfWeek,
		Name:          req.Name,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		SortOrder:     req.SortOrder,
		RequiredCount: req.RequiredCount,
		IsActive:      true,
	}

	// 检查班次时间是否合法
	if err := utils.ValidateShiftTemplateTime(template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftTemplate(template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次模板成功", template)
}

func (h *Handler) UpdateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	var req struct {
		DayOfWeek     *int32  `json:"dayOfWeek" validate:"omitempty,gte=0,lte=6"`
		Name          *string `json:"name"`
		StartTime     *string `json:"startTime"`
		EndTime       *string `json:"endTime"`
		SortOrder     *int32  `json:"sortOrder"`
		RequiredCount *int32  `json:"requiredCount" validate:"omitempty,gte=0"`
		IsActive      *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 将输入的参数解析到 template 中
	if req.DayOfWeek != nil {
		template.DayOfWeek = *req.DayOfWeek
	}
	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.StartTime != nil {
		template.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		template.EndTime = *req.EndTime
	}
	if req.SortOrder != nil {
		template.SortOrder = *req.SortOrder
	}
	if req.RequiredCount != nil {
		template.RequiredCount = *req.RequiredCount
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := utils.ValidateShiftTemplateTime(template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 修改人数要求不会影响已实例化的班次，它们保留创建时的快照
	if err := h.repository.UpdateShiftTemplate(template); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "模板已被其他人修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班次模板成功", template)
}

func (h *Handler) DeleteShiftTemplate(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)
	template := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if err := h.repository.DeleteShiftTemplate(workspace.ID, template.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次模板成功", nil)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	sub, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	workspace := &domain.Workspace{
		Name: req.Name,
	}

	if err := h.repository.CreateWorkspace(workspace, sub); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "workspaces_name_key":
			h.errorResponse(w, r, http.StatusConflict, "工作区名称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建工作区成功", workspace)
}

func (h *Handler) GetMyWorkspaces(w http.ResponseWriter, r *http.Request) {
	sub, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	workspaces, err := h.repository.GetWorkspacesByUserID(sub)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作区列表成功", workspaces)
}

func (h *Handler) AddWorkspaceMember(w http.ResponseWriter, r *http.Request) {
	workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

	var req struct {
		UserID int64  `json:"userID" validate:"required"`
		Role   string `json:"role" validate:"required,oneof=管理员 成员"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      req.UserID,
		Role:        domain.WorkspaceRole(req.Role),
	}

	if err := h.repository.AddWorkspaceMember(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "workspace_members_member_key":
				h.errorResponse(w, r, http.StatusConflict, "该用户已经是工作区成员")
			case "workspace_members_user_id_fkey":
				h.errorResponse(w, r, http.StatusNotFound, "用户不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "添加工作区成员成功", member)
}

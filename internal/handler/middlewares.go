package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 从 cookie 中获取 token
		cookie, err := r.Cookie("__weekroster_token")
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, http.StatusUnauthorized, "用户未登录")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 验证 token
		tokenString := cookie.Value
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "无效的令牌")
			return
		}

		// 将 claims 中的 role 和 sub 附在 context 中
		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID 从 auth 中间件附在 context 上的 sub 中解析出当前用户 ID。
func (h *Handler) currentUserID(r *http.Request) (int64, error) {
	subString, ok := r.Context().Value(SubCtxKey).(string)
	if !ok {
		return 0, errors.New("context 中不存在 sub")
	}
	return strconv.ParseInt(subString, 10, 64)
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, err := h.currentUserID(r)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.repository.GetUserByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "个人信息不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, http.StatusForbidden, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// workspaceMember 解析路径中的 workspaceID，校验当前用户是该工作区的成员，
// 并把工作区和成员关系附在 context 中。跨工作区访问一律在这里被拒绝。
func (h *Handler) workspaceMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		workspaceIDParam := chi.URLParam(r, "workspaceID")
		workspaceID, err := strconv.ParseInt(workspaceIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnprocessableEntity, "工作区ID无效")
			return
		}

		sub, err := h.currentUserID(r)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		workspace, err := h.repository.GetWorkspaceByID(workspaceID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "工作区不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		member, err := h.repository.GetWorkspaceMember(workspaceID, sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusForbidden, "您不是该工作区的成员")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, WorkspaceCtx, workspace)
		ctx = context.WithValue(ctx, WorkspaceMemberCtx, member)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireWorkspaceAdmin 在 workspaceMember 之后使用，排班写操作只对工作区管理员开放。
func (h *Handler) requireWorkspaceAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member := r.Context().Value(WorkspaceMemberCtx).(*domain.WorkspaceMember)
		if member.Role != domain.WorkspaceRoleAdmin {
			h.errorResponse(w, r, http.StatusForbidden, "没有该工作区的管理权限")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// shiftTemplate 解析路径中的模板 ID 并校验模板属于当前工作区。
func (h *Handler) shiftTemplate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		workspace := r.Context().Value(WorkspaceCtx).(*domain.Workspace)

		templateIDParam := chi.URLParam(r, "id")
		templateID, err := strconv.ParseInt(templateIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnprocessableEntity, "模板ID无效")
			return
		}

		template, err := h.repository.GetShiftTemplate(workspace.ID, templateID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "班次模板不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ShiftTemplateCtx, template)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) preventLeavedWorker(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
		if !myInfo.IsActive {
			h.errorResponse(w, r, http.StatusForbidden, "您已离职")
			return
		}
		next.ServeHTTP(w, r)
	})
}

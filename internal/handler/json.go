package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/roster"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusUnprocessableEntity, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// rosterError 把排班核心的各类失败映射成对应的 HTTP 状态码。
func (h *Handler) rosterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidInput),
		errors.Is(err, roster.ErrInvalidWeekStart),
		errors.Is(err, roster.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidDate):
		h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, roster.ErrForbidden):
		h.errorResponse(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, roster.ErrShiftNotFound),
		errors.Is(err, roster.ErrAssignmentNotFound),
		errors.Is(err, roster.ErrTemplateNotFound):
		h.errorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, roster.ErrPastDateLocked),
		errors.Is(err, roster.ErrWeekLocked),
		errors.Is(err, roster.ErrShiftFull):
		h.errorResponse(w, r, http.StatusConflict, err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户列表成功", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required,oneof=员工 管理员"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 不指定用户名时根据姓名的拼音生成一个
	if req.Username == "" {
		req.Username = utils.GenerateUsernameFromChineseName(req.FullName)
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "users_username_key":
				h.errorResponse(w, r, http.StatusConflict, "用户名已存在")
			case pgErr.ConstraintName == "users_email_key":
				h.errorResponse(w, r, http.StatusConflict, "邮箱已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 把初始密码通过邮件发给新用户
	mailMessage := domain.MailMessage{
		Type: "create_user",
		To:   user.Email,
		Data: domain.CreateUserMailData{
			FullName: user.FullName,
			Username: user.Username,
			Password: password,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

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
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建用户成功", user)
}

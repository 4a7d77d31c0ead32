package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/weekroster-dev/weekroster/backend/internal/config"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
		})

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", h.CreateWorkspace)
			r.Get("/", h.GetMyWorkspaces)

			r.Route("/{workspaceID}", func(r chi.Router) {
				r.Use(h.workspaceMember)

				r.With(h.requireWorkspaceAdmin).Post("/members", h.AddWorkspaceMember)

				r.Route("/shift-templates", func(r chi.Router) {
					r.Get("/", h.GetShiftTemplates)
					r.With(h.requireWorkspaceAdmin).Post("/", h.CreateShiftTemplate)
					r.Route("/{id}", func(r chi.Router) {
						r.Use(h.shiftTemplate)
						r.With(h.requireWorkspaceAdmin).Patch("/", h.UpdateShiftTemplate)
						r.With(h.requireWorkspaceAdmin).Delete("/", h.DeleteShiftTemplate)
					})
				})

				r.Route("/availability", func(r chi.Router) {
					r.With(h.myInfo, h.preventLeavedWorker).Post("/", h.SubmitAvailability)
					r.Get("/", h.GetMyAvailability)
				})

				r.Route("/schedule", func(r chi.Router) {
					r.Get("/", h.GetWeekSchedule)

					r.Group(func(r chi.Router) {
						r.Use(h.requireWorkspaceAdmin)
						r.Post("/", h.SaveWeekSchedule)
						r.Post("/assignments", h.AssignWorker)
						r.Delete("/assignments", h.RemoveAssignment)
						r.Post("/publish", h.PublishWeek)
						r.Post("/unpublish", h.UnpublishWeek)
					})
				})
			})
		})
	})
}

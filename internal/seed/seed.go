package seed

import (
	"log/slog"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/config"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/repository"
	"github.com/weekroster-dev/weekroster/backend/internal/utils"
)

// SeedDemoWorkspace 生成一个完整的演示工作区：
// n 名随机员工、每天的班次模板、以及下一周所有员工的空闲时间提交。
// 第一名员工作为工作区的创建者，自动成为工作区管理员。
func SeedDemoWorkspace(r *repository.Repository, cfg *config.Config, n int) {
	if n <= 0 {
		slog.Error("请输入合法的员工数量")
		return
	}

	// 插入随机员工
	users := make([]*domain.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.User.EmailDomain)
		if err != nil {
			slog.Error("无法生成随机员工", "error", err)
			continue
		}

		if err := r.CreateUser(user); err != nil {
			slog.Error("无法插入员工", "error", err)
			continue
		}

		users = append(users, user)
	}

	if len(users) == 0 {
		slog.Error("没有任何员工插入成功")
		return
	}

	// 创建工作区
	workspace := &domain.Workspace{
		Name: "演示工作区" + utils.GenerateRandomOTP(),
	}
	if err := r.CreateWorkspace(workspace, users[0].ID); err != nil {
		slog.Error("无法创建工作区", "error", err)
		return
	}

	// 其余员工作为普通成员加入
	for _, user := range users[1:] {
		member := &domain.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      user.ID,
			Role:        domain.WorkspaceRoleMember,
		}
		if err := r.AddWorkspaceMember(member); err != nil {
			slog.Error("无法添加工作区成员", "error", err)
		}
	}

	// 插入每天的班次模板
	templates := utils.GenerateRandomShiftTemplates(workspace.ID)
	for _, template := range templates {
		if err := r.CreateShiftTemplate(template); err != nil {
			slog.Error("无法插入班次模板", "error", err)
		}
	}

	// 为下一周生成所有员工的空闲时间提交
	weekStart := calendar.AddDays(calendar.NormalizeToWeekStart(calendar.Today()), 7)
	for _, user := range users {
		submission := utils.GenerateRandomSubmission(workspace.ID, user.ID, weekStart, templates)
		if err := r.InsertAvailabilitySubmission(submission); err != nil {
			slog.Error("无法插入空闲时间提交", "error", err)
		}
	}

	slog.Info("演示工作区生成完成",
		"workspace_id", workspace.ID,
		"workers", len(users),
		"templates", len(templates),
		"week_start", calendar.FormatDate(weekStart),
	)
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/config"
	"github.com/weekroster-dev/weekroster/backend/internal/repository"
	"github.com/weekroster-dev/weekroster/backend/internal/seed"
	"github.com/weekroster-dev/weekroster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var workspaceID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 生成演示工作区, 3: 为指定工作区插入下一周的空闲时间提交)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&workspaceID, "workspace-id", 0, "目标工作区 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.User.EmailDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 2:
		seed.SeedDemoWorkspace(repo, cfg, n)
	case 3:
		if workspaceID <= 0 {
			slog.Error("请输入合法的工作区 ID")
			return
		}

		templates, err := repo.GetActiveShiftTemplates(workspaceID)
		if err != nil {
			slog.Error("无法获取班次模板", slog.String("error", err.Error()))
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		weekStart := calendar.AddDays(calendar.NormalizeToWeekStart(calendar.Today()), 7)

		// 只为工作区成员生成提交
		cnt := 0
		for _, user := range users {
			if _, err := repo.GetWorkspaceMember(workspaceID, user.ID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				slog.Error("无法获取工作区成员", slog.String("error", err.Error()))
				continue
			}

			submission := utils.GenerateRandomSubmission(workspaceID, user.ID, weekStart, templates)
			if err := repo.InsertAvailabilitySubmission(submission); err != nil {
				slog.Error("无法插入空闲时间提交", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入空闲时间提交成功", slog.Int("count", cnt), slog.String("week_start", calendar.FormatDate(weekStart)))
	default:
		slog.Error("指定的操作非法")
	}
}

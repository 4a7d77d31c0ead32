package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"github.com/weekroster-dev/weekroster/backend/internal/roster"
)

// GetWeekScheduledShifts 返回某个工作区某一周所有已实例化的班次及其排班。
func (r *Repository) GetWeekScheduledShifts(workspaceID int64, weekStart time.Time) ([]*domain.ScheduledShift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ss.id,
			ss.day_date,
			ss.shift_template_id,
			ss.required_count,
			ss.status,
			ss.created_at,
			ssa.worker_id
		FROM scheduled_shifts ss
		LEFT JOIN scheduled_shift_assignments ssa ON ss.id = ssa.scheduled_shift_id
		WHERE ss.workspace_id = $1 AND ss.week_start_date = $2
		ORDER BY ss.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, workspaceID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftsMap := make(map[int64]*domain.ScheduledShift)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			id            int64
			dayDate       time.Time
			templateID    int64
			requiredCount int32
			status        string
			createdAt     time.Time
			workerID      sql.NullInt64
		}

		dst := []any{
			&row.id,
			&row.dayDate,
			&row.templateID,
			&row.requiredCount,
			&row.status,
			&row.createdAt,
			&row.workerID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		shift, exists := shiftsMap[row.id]
		if !exists {
			shift = &domain.ScheduledShift{
				ID:                row.id,
				WorkspaceID:       workspaceID,
				WeekStartDate:     weekStart,
				DayDate:           row.dayDate,
				ShiftTemplateID:   row.templateID,
				RequiredCount:     row.requiredCount,
				Status:            domain.ShiftStatus(row.status),
				CreatedAt:         row.createdAt,
				AssignedWorkerIDs: make([]int64, 0),
			}
			shiftsMap[row.id] = shift
			order = append(order, row.id)
		}

		// worker_id 为空表示这个班次实例还没有排任何人
		if !row.workerID.Valid {
			continue
		}

		shift.AssignedWorkerIDs = append(shift.AssignedWorkerIDs, row.workerID.Int64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	shifts := make([]*domain.ScheduledShift, 0, len(order))
	for _, id := range order {
		shifts = append(shifts, shiftsMap[id])
	}

	return shifts, nil
}

// selectShiftForUpdate 锁住某个 (周, 日期, 模板) 的班次实例行并读出它的排班。
// 行锁使并发的人数检查在同一个班次上串行化。
func (r *Repository) selectShiftForUpdate(ctx context.Context, tx *sql.Tx, workspaceID int64, weekStart time.Time, dayDate time.Time, templateID int64) (*domain.ScheduledShift, error) {
	query := `
		SELECT id, required_count, status, created_at
		FROM scheduled_shifts
		WHERE workspace_id = $1 AND week_start_date = $2 AND day_date = $3 AND shift_template_id = $4
		FOR UPDATE
	`

	shift := &domain.ScheduledShift{
		WorkspaceID:     workspaceID,
		WeekStartDate:   weekStart,
		DayDate:         dayDate,
		ShiftTemplateID: templateID,
	}

	var status string
	params := []any{workspaceID, weekStart, dayDate, templateID}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.RequiredCount, &status, &shift.CreatedAt); err != nil {
		return nil, err
	}
	shift.Status = domain.ShiftStatus(status)

	query = `SELECT worker_id FROM scheduled_shift_assignments WHERE scheduled_shift_id = $1`
	rows, err := tx.QueryContext(ctx, query, shift.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shift.AssignedWorkerIDs = make([]int64, 0)
	for rows.Next() {
		var workerID int64
		if err := rows.Scan(&workerID); err != nil {
			return nil, err
		}
		shift.AssignedWorkerIDs = append(shift.AssignedWorkerIDs, workerID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shift, nil
}

// AssignWorker 把一名员工排进某个 (周, 日期, 模板) 的班次实例，
// 实例不存在时惰性创建（人数要求从模板上拷贝快照）。
// 整个操作在一个事务中完成：发布锁、重复排班、人数上限都基于
// 行锁下读出的最新数据复核，两个并发的"第一次排班"请求会通过
// 唯一约束冲突后的重查收敛到同一个实例上。
func (r *Repository) AssignWorker(workspaceID int64, weekStart time.Time, dayDate time.Time, templateID int64, workerID int64) (*domain.AssignResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	shift, err := r.selectShiftForUpdate(ctx, tx, workspaceID, weekStart, dayDate, templateID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			shift, err = r.createShift(ctx, tx, workspaceID, weekStart, dayDate, templateID)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	alreadyAssigned, err := roster.CheckAssign(shift, workerID)
	if err != nil {
		return nil, err
	}

	result := &domain.AssignResult{
		ScheduledShiftID: shift.ID,
		AlreadyAssigned:  alreadyAssigned,
	}

	if alreadyAssigned {
		// 幂等：什么都不写，直接返回已有的实例 id
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return result, nil
	}

	query := `
		INSERT INTO scheduled_shift_assignments (scheduled_shift_id, worker_id)
		VALUES ($1, $2)
	`
	if _, err := tx.ExecContext(ctx, query, shift.ID, workerID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "scheduled_shift_assignments_worker_key" {
			// 同一个员工的并发重复请求，当作幂等成功
			result.AlreadyAssigned = true
		} else {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}

// createShift 在事务内插入新的班次实例。插入撞上唯一约束说明并发请求
// 抢先创建了同一个实例，此时重查并锁住那一行，而不是报错。
func (r *Repository) createShift(ctx context.Context, tx *sql.Tx, workspaceID int64, weekStart time.Time, dayDate time.Time, templateID int64) (*domain.ScheduledShift, error) {
	query := `
		SELECT required_count FROM shift_templates
		WHERE id = $1 AND workspace_id = $2
	`
	var requiredCount int32
	if err := tx.QueryRowContext(ctx, query, templateID, workspaceID).Scan(&requiredCount); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, roster.ErrTemplateNotFound
		default:
			return nil, err
		}
	}

	shift := &domain.ScheduledShift{
		WorkspaceID:       workspaceID,
		WeekStartDate:     weekStart,
		DayDate:           dayDate,
		ShiftTemplateID:   templateID,
		RequiredCount:     requiredCount,
		Status:            domain.ShiftStatusDraft,
		AssignedWorkerIDs: make([]int64, 0),
	}

	query = `
		INSERT INTO scheduled_shifts (workspace_id, week_start_date, day_date, shift_template_id, required_count, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	params := []any{workspaceID, weekStart, dayDate, templateID, requiredCount, string(domain.ShiftStatusDraft)}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "scheduled_shifts_slot_key" {
			return r.selectShiftForUpdate(ctx, tx, workspaceID, weekStart, dayDate, templateID)
		}
		return nil, err
	}

	return shift, nil
}

// RemoveAssignment 把一名员工从班次实例中移除。
// 移除不存在的排班会返回 ErrAssignmentNotFound，以免掩盖调用方的 bug。
func (r *Repository) RemoveAssignment(workspaceID int64, scheduledShiftID int64, workerID int64, today time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT day_date, status FROM scheduled_shifts
		WHERE id = $1 AND workspace_id = $2
		FOR UPDATE
	`
	shift := &domain.ScheduledShift{
		ID:          scheduledShiftID,
		WorkspaceID: workspaceID,
	}
	var status string
	if err := tx.QueryRowContext(ctx, query, scheduledShiftID, workspaceID).Scan(&shift.DayDate, &status); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return roster.ErrShiftNotFound
		default:
			return err
		}
	}
	shift.Status = domain.ShiftStatus(status)

	if err := roster.CheckRemove(shift, today); err != nil {
		return err
	}

	query = `
		DELETE FROM scheduled_shift_assignments
		WHERE scheduled_shift_id = $1 AND worker_id = $2
	`
	res, err := tx.ExecContext(ctx, query, scheduledShiftID, workerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return roster.ErrAssignmentNotFound
	}

	// 移除所有排班后班次实例仍然保留为空的草稿实例
	return tx.Commit()
}

// SetWeekStatus 把某一周所有班次实例的状态改成 status。
// 无条件覆盖：发布时人手不足只是界面上的警告，不阻止发布。
func (r *Repository) SetWeekStatus(workspaceID int64, weekStart time.Time, status domain.ShiftStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE scheduled_shifts
		SET status = $1
		WHERE workspace_id = $2 AND week_start_date = $3
	`

	if _, err := r.dbpool.ExecContext(ctx, query, string(status), workspaceID, weekStart); err != nil {
		return err
	}

	return nil
}

// GetWeekStatus 推导周状态：存在任何已发布的班次实例即为已发布。
func (r *Repository) GetWeekStatus(workspaceID int64, weekStart time.Time) (domain.ShiftStatus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM scheduled_shifts
			WHERE workspace_id = $1 AND week_start_date = $2 AND status = $3
		)
	`

	var published bool
	if err := r.dbpool.QueryRowContext(ctx, query, workspaceID, weekStart, string(domain.ShiftStatusPublished)).Scan(&published); err != nil {
		return "", err
	}

	if published {
		return domain.ShiftStatusPublished, nil
	}
	return domain.ShiftStatusDraft, nil
}

// SaveWeekSchedule 整周保存：把传入的班次实例和排班集合一次性落库。
// 要么整周一起生效，要么全部回滚，避免并发读者看到写了一半的班表。
func (r *Repository) SaveWeekSchedule(workspaceID int64, weekStart time.Time, shifts []*domain.ScheduledShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 已发布的周拒绝整周保存
	query := `
		SELECT EXISTS (
			SELECT 1 FROM scheduled_shifts
			WHERE workspace_id = $1 AND week_start_date = $2 AND status = $3
		)
	`
	var published bool
	if err := tx.QueryRowContext(ctx, query, workspaceID, weekStart, string(domain.ShiftStatusPublished)).Scan(&published); err != nil {
		return err
	}
	if published {
		return roster.ErrWeekLocked
	}

	for _, shift := range shifts {
		if shift.RequiredCount > 0 && len(shift.AssignedWorkerIDs) > int(shift.RequiredCount) {
			return roster.ErrShiftFull
		}

		query := `
			INSERT INTO scheduled_shifts (workspace_id, week_start_date, day_date, shift_template_id, required_count, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT ON CONSTRAINT scheduled_shifts_slot_key
			DO UPDATE SET required_count = EXCLUDED.required_count
			RETURNING id
		`
		params := []any{workspaceID, weekStart, shift.DayDate, shift.ShiftTemplateID, shift.RequiredCount, string(domain.ShiftStatusDraft)}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID); err != nil {
			return err
		}

		// 整周保存以传入的排班集合为准，先清掉旧的再写入
		query = `DELETE FROM scheduled_shift_assignments WHERE scheduled_shift_id = $1`
		if _, err := tx.ExecContext(ctx, query, shift.ID); err != nil {
			return err
		}

		for _, workerID := range shift.AssignedWorkerIDs {
			query = `
				INSERT INTO scheduled_shift_assignments (scheduled_shift_id, worker_id)
				VALUES ($1, $2)
			`
			if _, err := tx.ExecContext(ctx, query, shift.ID, workerID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetWeekAssignedWorkers 返回某一周内被排了至少一个班次的员工，用于发布通知。
func (r *Repository) GetWeekAssignedWorkers(workspaceID int64, weekStart time.Time) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT DISTINCT u.id, u.username, u.full_name, u.email, u.role, u.is_active, u.created_at
		FROM users u
		JOIN scheduled_shift_assignments ssa ON u.id = ssa.worker_id
		JOIN scheduled_shifts ss ON ssa.scheduled_shift_id = ss.id
		WHERE ss.workspace_id = $1 AND ss.week_start_date = $2
	`

	rows, err := r.dbpool.QueryContext(ctx, query, workspaceID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := []*domain.User{}
	for rows.Next() {
		var user domain.User
		dst := []any{&user.ID, &user.Username, &user.FullName, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

package repository

import (
	"context"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

// InsertAvailabilitySubmission 写入员工某一周的空闲时间。
// 每个 (员工, 工作区, 周) 只保留最新一份：先删旧记录再插入，整个过程在一个事务中。
func (r *Repository) InsertAvailabilitySubmission(submission *domain.AvailabilitySubmission) error {
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
		DELETE FROM availability_submissions
		WHERE user_id = $1 AND workspace_id = $2 AND week_start_date = $3
	`
	if _, err := tx.ExecContext(ctx, query, submission.UserID, submission.WorkspaceID, submission.WeekStartDate); err != nil {
		return err
	}

	query = `
		INSERT INTO availability_submissions (user_id, workspace_id, week_start_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, submission.UserID, submission.WorkspaceID, submission.WeekStartDate).Scan(&submission.ID, &submission.CreatedAt, &submission.Version); err != nil {
		return err
	}

	for _, item := range submission.Items {
		query := `
			INSERT INTO availability_items (submission_id, day_date, shift_template_id)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, submission.ID, item.DayDate, item.ShiftTemplateID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAvailabilitySubmission(userID int64, workspaceID int64, weekStart time.Time) (*domain.AvailabilitySubmission, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, created_at, version
		FROM availability_submissions
		WHERE user_id = $1 AND workspace_id = $2 AND week_start_date = $3
	`

	submission := &domain.AvailabilitySubmission{
		UserID:        userID,
		WorkspaceID:   workspaceID,
		WeekStartDate: weekStart,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, userID, workspaceID, weekStart).Scan(&submission.ID, &submission.CreatedAt, &submission.Version); err != nil {
		return nil, err
	}

	query = `
		SELECT day_date, shift_template_id
		FROM availability_items
		WHERE submission_id = $1
		ORDER BY day_date, shift_template_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, submission.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submission.Items = make([]domain.AvailabilityItem, 0)
	for rows.Next() {
		var item domain.AvailabilityItem
		if err := rows.Scan(&item.DayDate, &item.ShiftTemplateID); err != nil {
			return nil, err
		}
		submission.Items = append(submission.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submission, nil
}

// GetWeekSubmissions 返回某个工作区某一周所有员工的空闲时间提交。
// 没有任何提交时直接短路返回，不再查明细表。
func (r *Repository) GetWeekSubmissions(workspaceID int64, weekStart time.Time) ([]*domain.AvailabilitySubmission, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, user_id, created_at, version
		FROM availability_submissions
		WHERE workspace_id = $1 AND week_start_date = $2
	`

	rows, err := r.dbpool.QueryContext(ctx, query, workspaceID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissionsMap := make(map[int64]*domain.AvailabilitySubmission)
	submissions := []*domain.AvailabilitySubmission{}

	for rows.Next() {
		submission := &domain.AvailabilitySubmission{
			WorkspaceID:   workspaceID,
			WeekStartDate: weekStart,
			Items:         make([]domain.AvailabilityItem, 0),
		}
		if err := rows.Scan(&submission.ID, &submission.UserID, &submission.CreatedAt, &submission.Version); err != nil {
			return nil, err
		}
		submissionsMap[submission.ID] = submission
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(submissions) == 0 {
		return submissions, nil
	}

	query = `
		SELECT ai.submission_id, ai.day_date, ai.shift_template_id
		FROM availability_items ai
		JOIN availability_submissions s ON ai.submission_id = s.id
		WHERE s.workspace_id = $1 AND s.week_start_date = $2
	`

	itemRows, err := r.dbpool.QueryContext(ctx, query, workspaceID, weekStart)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var row struct {
			submissionID int64
			dayDate      time.Time
			templateID   int64
		}
		if err := itemRows.Scan(&row.submissionID, &row.dayDate, &row.templateID); err != nil {
			return nil, err
		}

		submission, exists := submissionsMap[row.submissionID]
		if !exists {
			// 提交在两次查询之间被覆盖了，忽略孤儿明细
			continue
		}
		submission.Items = append(submission.Items, domain.AvailabilityItem{
			DayDate:         row.dayDate,
			ShiftTemplateID: row.templateID,
		})
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}

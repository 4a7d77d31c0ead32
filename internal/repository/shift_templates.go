package repository

import (
	"context"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

func (r *Repository) CreateShiftTemplate(template *domain.ShiftTemplate) error {
	query := `
		INSERT INTO shift_templates (workspace_id, day_of_week, name, start_time, end_time, sort_order, required_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		template.WorkspaceID,
		template.DayOfWeek,
		template.Name,
		template.StartTime,
		template.EndTime,
		template.SortOrder,
		template.RequiredCount,
		template.IsActive,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&template.ID, &template.CreatedAt, &template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftTemplate(workspaceID int64, id int64) (*domain.ShiftTemplate, error) {
	query := `
		SELECT day_of_week, name, start_time, end_time, sort_order, required_count, is_active, created_at, version
		FROM shift_templates
		WHERE id = $1 AND workspace_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	template := &domain.ShiftTemplate{
		ID:          id,
		WorkspaceID: workspaceID,
	}

	dst := []any{
		&template.DayOfWeek,
		&template.Name,
		&template.StartTime,
		&template.EndTime,
		&template.SortOrder,
		&template.RequiredCount,
		&template.IsActive,
		&template.CreatedAt,
		&template.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id, workspaceID).Scan(dst...); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) GetShiftTemplatesByWorkspaceID(workspaceID int64) ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, day_of_week, name, start_time, end_time, sort_order, required_count, is_active, created_at, version
		FROM shift_templates
		WHERE workspace_id = $1
		ORDER BY day_of_week, sort_order, id
	`

	return r.queryShiftTemplates(query, workspaceID)
}

// GetActiveShiftTemplates 只返回启用中的模板，周视图合成只考虑这部分。
func (r *Repository) GetActiveShiftTemplates(workspaceID int64) ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, day_of_week, name, start_time, end_time, sort_order, required_count, is_active, created_at, version
		FROM shift_templates
		WHERE workspace_id = $1 AND is_active = TRUE
		ORDER BY day_of_week, sort_order, id
	`

	return r.queryShiftTemplates(query, workspaceID)
}

func (r *Repository) queryShiftTemplates(query string, workspaceID int64) ([]*domain.ShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*domain.ShiftTemplate{}
	for rows.Next() {
		template := &domain.ShiftTemplate{
			WorkspaceID: workspaceID,
		}
		dst := []any{
			&template.ID,
			&template.DayOfWeek,
			&template.Name,
			&template.StartTime,
			&template.EndTime,
			&template.SortOrder,
			&template.RequiredCount,
			&template.IsActive,
			&template.CreatedAt,
			&template.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) UpdateShiftTemplate(template *domain.ShiftTemplate) error {
	// 注意：修改人数要求只影响之后实例化的班次，已实例化的班次保留创建时的快照
	query := `
		UPDATE shift_templates
		SET
			day_of_week = $1,
			name = $2,
			start_time = $3,
			end_time = $4,
			sort_order = $5,
			required_count = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		template.DayOfWeek,
		template.Name,
		template.StartTime,
		template.EndTime,
		template.SortOrder,
		template.RequiredCount,
		template.IsActive,
		template.ID,
		template.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftTemplate(workspaceID int64, id int64) error {
	query := `
		DELETE FROM shift_templates WHERE id = $1 AND workspace_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id, workspaceID); err != nil {
		return err
	}

	return nil
}

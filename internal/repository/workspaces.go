package repository

import (
	"context"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

// CreateWorkspace 创建工作区并把创建者设为工作区管理员，两步在一个事务中完成。
func (r *Repository) CreateWorkspace(workspace *domain.Workspace, creatorID int64) error {
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
		INSERT INTO workspaces (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, workspace.Name).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, query, workspace.ID, creatorID, string(domain.WorkspaceRoleAdmin)); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetWorkspaceByID(id int64) (*domain.Workspace, error) {
	query := `
		SELECT name, created_at, version FROM workspaces WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	workspace := &domain.Workspace{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&workspace.Name, &workspace.CreatedAt, &workspace.Version); err != nil {
		return nil, err
	}

	return workspace, nil
}

func (r *Repository) GetWorkspacesByUserID(userID int64) ([]*domain.Workspace, error) {
	query := `
		SELECT w.id, w.name, w.created_at, w.version
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workspaces := []*domain.Workspace{}
	for rows.Next() {
		var workspace domain.Workspace
		if err := rows.Scan(&workspace.ID, &workspace.Name, &workspace.CreatedAt, &workspace.Version); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, &workspace)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workspaces, nil
}

// GetWorkspaceMember 返回成员关系，用户不在工作区中时返回 sql.ErrNoRows。
func (r *Repository) GetWorkspaceMember(workspaceID int64, userID int64) (*domain.WorkspaceMember, error) {
	query := `
		SELECT role, created_at FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	member := &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
	}

	var role string
	if err := r.dbpool.QueryRowContext(ctx, query, workspaceID, userID).Scan(&role, &member.CreatedAt); err != nil {
		return nil, err
	}
	member.Role = domain.WorkspaceRole(role)

	return member, nil
}

func (r *Repository) AddWorkspaceMember(member *domain.WorkspaceMember) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{member.WorkspaceID, member.UserID, string(member.Role)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&member.CreatedAt); err != nil {
		return err
	}

	return nil
}

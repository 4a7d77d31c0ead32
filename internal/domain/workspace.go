package domain

import "time"

type WorkspaceRole string

const (
	WorkspaceRoleAdmin  WorkspaceRole = "管理员"
	WorkspaceRoleMember WorkspaceRole = "成员"
)

type Workspace struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type WorkspaceMember struct {
	WorkspaceID int64         `json:"workspaceID"`
	UserID      int64         `json:"userID"`
	Role        WorkspaceRole `json:"role"`
	CreatedAt   time.Time     `json:"createdAt"`
}

package handler

type ContextKey string

var (
	RoleCtxKey         ContextKey = "role"
	SubCtxKey          ContextKey = "sub"
	MyInfoCtx          ContextKey = "myInfo"
	WorkspaceCtx       ContextKey = "workspace"
	WorkspaceMemberCtx ContextKey = "workspaceMember"
	ShiftTemplateCtx   ContextKey = "shiftTemplate"
)

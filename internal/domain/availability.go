package domain

import "time"

type AvailabilityItem struct {
	DayDate         time.Time `json:"dayDate"`
	ShiftTemplateID int64     `json:"shiftTemplateID"`
}

// AvailabilitySubmission 是员工针对某个工作区某一周提交的空闲时间，
// 每个 (员工, 工作区, 周) 至多一份，重复提交会覆盖旧的记录。
// 提交空闲时间只表示员工愿意上这个班，不代表已被排班。
type AvailabilitySubmission struct {
	ID            int64              `json:"id"`
	WorkspaceID   int64              `json:"workspaceID"`
	UserID        int64              `json:"userID"`
	WeekStartDate time.Time          `json:"weekStartDate"`
	Items         []AvailabilityItem `json:"items"`
	CreatedAt     time.Time          `json:"createdAt"`
	Version       int32              `json:"-"`
}

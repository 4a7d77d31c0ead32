package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusDraft     ShiftStatus = "draft"
	ShiftStatusPublished ShiftStatus = "published"
)

// ScheduledShift 是班次模板在某个具体日期上的实例，
// 在第一次排人或整周保存时才会被惰性创建。
// RequiredCount 是创建时从模板上拷贝的快照，之后修改模板不会影响已创建的实例。
type ScheduledShift struct {
	ID              int64       `json:"id"`
	WorkspaceID     int64       `json:"workspaceID"`
	WeekStartDate   time.Time   `json:"weekStartDate"`
	DayDate         time.Time   `json:"dayDate"`
	ShiftTemplateID int64       `json:"shiftTemplateID"`
	RequiredCount   int32       `json:"requiredCount"`
	Status          ShiftStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`

	// 已被排进这个班次的员工
	AssignedWorkerIDs []int64 `json:"assignedWorkerIDs"`
}

type AssignResult struct {
	ScheduledShiftID int64 `json:"scheduledShiftID"`
	AlreadyAssigned  bool  `json:"alreadyAssigned"`
}

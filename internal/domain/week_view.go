package domain

// WeekView 是管理员排班界面所消费的读模型：
// 一周七天，每天列出当天生效的模板班次、谁有空、谁已被排进去。
type WeekView struct {
	WorkspaceID        int64         `json:"workspaceID"`
	WeekStartDate      string        `json:"weekStartDate"` // YYYY-MM-DD
	WeekStatus         ShiftStatus   `json:"weekStatus"`
	SubmittedWorkerIDs []int64       `json:"submittedWorkerIDs"`
	Days               []WeekViewDay `json:"days"`
}

type WeekViewDay struct {
	Date   string          `json:"date"` // YYYY-MM-DD
	Shifts []WeekViewShift `json:"shifts"`
}

type WeekViewTemplate struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type WeekViewShift struct {
	// 班次实例还没有被创建时为 null
	ScheduledShiftID   *int64           `json:"scheduledShiftID"`
	Template           WeekViewTemplate `json:"template"`
	RequiredCount      int32            `json:"requiredCount"`
	AvailableWorkerIDs []int64          `json:"availableWorkerIDs"`
	AssignedWorkerIDs  []int64          `json:"assignedWorkerIDs"`
}

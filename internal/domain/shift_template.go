package domain

import "time"

// ShiftTemplate 是某个工作区在某个星期几上的循环班次定义，
// 只和星期几绑定，不和具体日期绑定。
type ShiftTemplate struct {
	ID            int64     `json:"id"`
	WorkspaceID   int64     `json:"workspaceID"`
	DayOfWeek     int32     `json:"dayOfWeek"` // 0 = 周日，6 = 周六
	Name          string    `json:"name"`
	StartTime     string    `json:"startTime"` // HH:MM:SS
	EndTime       string    `json:"endTime"`
	SortOrder     int32     `json:"sortOrder"`
	RequiredCount int32     `json:"requiredCount"` // 0 表示不限人数
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}

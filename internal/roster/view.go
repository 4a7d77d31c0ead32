package roster

import (
	"slices"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

// BuildWeekView 把三路数据（模板、空闲时间提交、已落库的班次实例）
// 合成管理员界面消费的周视图。输入必须都属于同一个 (工作区, 周)，
// weekStart 必须是已经归一化过的周日。
//
// 模板是"虚拟"的：某个 (日期, 模板) 还没有班次实例时照样出现在视图里，
// 只是 scheduledShiftID 为 null，人数要求取模板上的当前值；
// 一旦实例化，实例行上的快照优先。
func BuildWeekView(
	workspaceID int64,
	weekStart time.Time,
	templates []*domain.ShiftTemplate,
	submissions []*domain.AvailabilitySubmission,
	shifts []*domain.ScheduledShift,
) *domain.WeekView {
	// 按星期几归组模板，同一天内按 sortOrder 排序
	templatesByDay := make(map[int][]*domain.ShiftTemplate)
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		templatesByDay[int(t.DayOfWeek)] = append(templatesByDay[int(t.DayOfWeek)], t)
	}
	for _, ts := range templatesByDay {
		slices.SortFunc(ts, func(a, b *domain.ShiftTemplate) int {
			if a.SortOrder != b.SortOrder {
				return int(a.SortOrder - b.SortOrder)
			}
			return int(a.ID - b.ID)
		})
	}

	// 空闲时间按 (日期, 模板) 建索引
	availableMap := make(map[string]map[int64][]int64) // date -> templateID -> workerIDs
	submittedWorkerIDs := make([]int64, 0, len(submissions))
	for _, sub := range submissions {
		submittedWorkerIDs = append(submittedWorkerIDs, sub.UserID)
		for _, item := range sub.Items {
			day := calendar.FormatDate(item.DayDate)
			if _, exists := availableMap[day]; !exists {
				availableMap[day] = make(map[int64][]int64)
			}
			availableMap[day][item.ShiftTemplateID] = append(availableMap[day][item.ShiftTemplateID], sub.UserID)
		}
	}
	slices.Sort(submittedWorkerIDs)

	// 已落库的班次实例按 (日期, 模板) 建索引
	shiftsMap := make(map[string]map[int64]*domain.ScheduledShift)
	for _, s := range shifts {
		day := calendar.FormatDate(s.DayDate)
		if _, exists := shiftsMap[day]; !exists {
			shiftsMap[day] = make(map[int64]*domain.ScheduledShift)
		}
		shiftsMap[day][s.ShiftTemplateID] = s
	}

	view := &domain.WeekView{
		WorkspaceID:        workspaceID,
		WeekStartDate:      calendar.FormatDate(weekStart),
		WeekStatus:         WeekStatusOf(shifts),
		SubmittedWorkerIDs: submittedWorkerIDs,
		Days:               make([]domain.WeekViewDay, 7),
	}

	for i := 0; i < 7; i++ {
		date := calendar.AddDays(weekStart, i)
		dateStr := calendar.FormatDate(date)

		day := domain.WeekViewDay{
			Date: dateStr,
			// 当天没有模板时返回空列表（歇业日），而不是 null
			Shifts: make([]domain.WeekViewShift, 0),
		}

		// weekStart 是周日，所以第 i 天的星期序号就是 i
		for _, t := range templatesByDay[i] {
			shift := domain.WeekViewShift{
				Template: domain.WeekViewTemplate{
					ID:        t.ID,
					Name:      t.Name,
					StartTime: t.StartTime,
					EndTime:   t.EndTime,
				},
				RequiredCount:      t.RequiredCount,
				AvailableWorkerIDs: make([]int64, 0),
				AssignedWorkerIDs:  make([]int64, 0),
			}

			if workers, exists := availableMap[dateStr][t.ID]; exists {
				shift.AvailableWorkerIDs = append(shift.AvailableWorkerIDs, workers...)
				slices.Sort(shift.AvailableWorkerIDs)
			}

			if persisted, exists := shiftsMap[dateStr][t.ID]; exists {
				id := persisted.ID
				shift.ScheduledShiftID = &id
				shift.RequiredCount = persisted.RequiredCount
				shift.AssignedWorkerIDs = append(shift.AssignedWorkerIDs, persisted.AssignedWorkerIDs...)
				slices.Sort(shift.AssignedWorkerIDs)
			}

			day.Shifts = append(day.Shifts, shift)
		}

		view.Days[i] = day
	}

	return view
}

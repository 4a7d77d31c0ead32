package roster

import (
	"testing"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

const testWorkspaceID int64 = 7

func testTemplates() []*domain.ShiftTemplate {
	return []*domain.ShiftTemplate{
		{ID: 1, WorkspaceID: testWorkspaceID, DayOfWeek: 1, Name: "早班", StartTime: "09:00:00", EndTime: "13:00:00", SortOrder: 1, RequiredCount: 2, IsActive: true},
		{ID: 2, WorkspaceID: testWorkspaceID, DayOfWeek: 1, Name: "晚班", StartTime: "17:00:00", EndTime: "21:00:00", SortOrder: 2, RequiredCount: 1, IsActive: true},
		{ID: 3, WorkspaceID: testWorkspaceID, DayOfWeek: 3, Name: "午班", StartTime: "12:00:00", EndTime: "16:00:00", SortOrder: 1, RequiredCount: 3, IsActive: true},
		// 停用的模板不应该出现在视图里
		{ID: 4, WorkspaceID: testWorkspaceID, DayOfWeek: 1, Name: "废弃班", StartTime: "00:00:00", EndTime: "06:00:00", SortOrder: 0, RequiredCount: 1, IsActive: false},
	}
}

func TestBuildWeekViewShape(t *testing.T) {
	weekStart := mustDate(t, "2025-03-09")

	view := BuildWeekView(testWorkspaceID, weekStart, testTemplates(), nil, nil)

	if view.WeekStartDate != "2025-03-09" {
		t.Errorf("weekStartDate = %s", view.WeekStartDate)
	}
	if view.WeekStatus != domain.ShiftStatusDraft {
		t.Errorf("没有班次实例的周状态应该是 draft，实际是 %s", view.WeekStatus)
	}
	if len(view.Days) != 7 {
		t.Fatalf("一周应该有 7 天，实际有 %d 天", len(view.Days))
	}

	// 周一（下标 1）有两个启用的模板，按 sortOrder 排序
	monday := view.Days[1]
	if monday.Date != "2025-03-10" {
		t.Errorf("周一日期 = %s", monday.Date)
	}
	if len(monday.Shifts) != 2 {
		t.Fatalf("周一应该有 2 个班次，实际有 %d 个", len(monday.Shifts))
	}
	if monday.Shifts[0].Template.Name != "早班" || monday.Shifts[1].Template.Name != "晚班" {
		t.Errorf("周一班次顺序错误: %s, %s", monday.Shifts[0].Template.Name, monday.Shifts[1].Template.Name)
	}

	// 未实例化的班次：id 为 null，人数要求取模板当前值
	if monday.Shifts[0].ScheduledShiftID != nil {
		t.Errorf("未实例化的班次 scheduledShiftID 应该为 null")
	}
	if monday.Shifts[0].RequiredCount != 2 {
		t.Errorf("未实例化班次的人数要求 = %d, 期望模板值 2", monday.Shifts[0].RequiredCount)
	}

	// 周二（下标 2）没有模板：歇业日，空列表而不是 null
	tuesday := view.Days[2]
	if tuesday.Shifts == nil || len(tuesday.Shifts) != 0 {
		t.Errorf("歇业日应该返回空班次列表")
	}
}

func TestBuildWeekViewAvailability(t *testing.T) {
	weekStart := mustDate(t, "2025-03-09")
	monday := mustDate(t, "2025-03-10")

	submissions := []*domain.AvailabilitySubmission{
		{
			UserID: 200, WorkspaceID: testWorkspaceID, WeekStartDate: weekStart,
			Items: []domain.AvailabilityItem{
				{DayDate: monday, ShiftTemplateID: 1},
				{DayDate: monday, ShiftTemplateID: 2},
			},
		},
		{
			UserID: 100, WorkspaceID: testWorkspaceID, WeekStartDate: weekStart,
			Items: []domain.AvailabilityItem{
				{DayDate: monday, ShiftTemplateID: 1},
			},
		},
	}

	view := BuildWeekView(testWorkspaceID, weekStart, testTemplates(), submissions, nil)

	if len(view.SubmittedWorkerIDs) != 2 || view.SubmittedWorkerIDs[0] != 100 || view.SubmittedWorkerIDs[1] != 200 {
		t.Errorf("submittedWorkerIDs = %v", view.SubmittedWorkerIDs)
	}

	shifts := view.Days[1].Shifts
	if got := shifts[0].AvailableWorkerIDs; len(got) != 2 || got[0] != 100 || got[1] != 200 {
		t.Errorf("早班空闲员工 = %v, 期望 [100 200]", got)
	}
	if got := shifts[1].AvailableWorkerIDs; len(got) != 1 || got[0] != 200 {
		t.Errorf("晚班空闲员工 = %v, 期望 [200]", got)
	}

	// 空闲声明不等于排班
	if len(shifts[0].AssignedWorkerIDs) != 0 {
		t.Errorf("没有排班时 assignedWorkerIDs 应该为空")
	}
}

func TestBuildWeekViewPersistedShiftWins(t *testing.T) {
	weekStart := mustDate(t, "2025-03-09")
	monday := mustDate(t, "2025-03-10")

	// 实例化时模板要求 2 人，之后模板被改成 5 人：视图里应该显示快照值 2
	templates := testTemplates()
	templates[0].RequiredCount = 5

	persisted := []*domain.ScheduledShift{
		{
			ID: 42, WorkspaceID: testWorkspaceID, WeekStartDate: weekStart,
			DayDate: monday, ShiftTemplateID: 1, RequiredCount: 2,
			Status:            domain.ShiftStatusDraft,
			AssignedWorkerIDs: []int64{300, 100},
		},
	}

	view := BuildWeekView(testWorkspaceID, weekStart, templates, nil, persisted)

	shift := view.Days[1].Shifts[0]
	if shift.ScheduledShiftID == nil || *shift.ScheduledShiftID != 42 {
		t.Fatalf("已实例化的班次应该带上实例 id")
	}
	if shift.RequiredCount != 2 {
		t.Errorf("人数要求 = %d, 实例化后应该以快照值 2 为准", shift.RequiredCount)
	}
	if len(shift.AssignedWorkerIDs) != 2 || shift.AssignedWorkerIDs[0] != 100 || shift.AssignedWorkerIDs[1] != 300 {
		t.Errorf("assignedWorkerIDs = %v, 期望 [100 300]", shift.AssignedWorkerIDs)
	}

	// 同一天的另一个模板仍然是未实例化状态
	if view.Days[1].Shifts[1].ScheduledShiftID != nil {
		t.Errorf("晚班不应该有实例 id")
	}
}

func TestBuildWeekViewWeekStatus(t *testing.T) {
	weekStart := mustDate(t, "2025-03-09")
	monday := mustDate(t, "2025-03-10")
	wednesday := mustDate(t, "2025-03-12")

	persisted := []*domain.ScheduledShift{
		{ID: 1, DayDate: monday, ShiftTemplateID: 1, Status: domain.ShiftStatusDraft},
		{ID: 2, DayDate: wednesday, ShiftTemplateID: 3, Status: domain.ShiftStatusPublished},
	}

	view := BuildWeekView(testWorkspaceID, weekStart, testTemplates(), nil, persisted)
	if view.WeekStatus != domain.ShiftStatusPublished {
		t.Errorf("有已发布班次的周状态 = %s, 期望 published", view.WeekStatus)
	}
}

// 新模板加在已实例化的周之后：出现在视图里但没有实例 id 和排班
func TestBuildWeekViewLateTemplate(t *testing.T) {
	weekStart := mustDate(t, "2025-03-09")
	monday := mustDate(t, "2025-03-10")

	templates := append(testTemplates(), &domain.ShiftTemplate{
		ID: 9, WorkspaceID: testWorkspaceID, DayOfWeek: 1, Name: "夜班",
		StartTime: "21:00:00", EndTime: "23:00:00", SortOrder: 3, RequiredCount: 1, IsActive: true,
	})
	persisted := []*domain.ScheduledShift{
		{ID: 42, DayDate: monday, ShiftTemplateID: 1, RequiredCount: 2, Status: domain.ShiftStatusDraft, AssignedWorkerIDs: []int64{100}},
	}

	view := BuildWeekView(testWorkspaceID, weekStart, templates, nil, persisted)

	shifts := view.Days[1].Shifts
	if len(shifts) != 3 {
		t.Fatalf("周一应该有 3 个班次，实际有 %d 个", len(shifts))
	}
	late := shifts[2]
	if late.Template.Name != "夜班" {
		t.Fatalf("第三个班次应该是夜班，实际是 %s", late.Template.Name)
	}
	if late.ScheduledShiftID != nil || len(late.AssignedWorkerIDs) != 0 {
		t.Errorf("新加的模板在实例化前不应该有实例 id 和排班")
	}
}

func TestBuildWeekViewNormalizedDates(t *testing.T) {
	weekStart := calendar.NormalizeToWeekStart(mustDate(t, "2025-03-12"))
	view := BuildWeekView(testWorkspaceID, weekStart, nil, nil, nil)

	want := []string{"2025-03-09", "2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-15"}
	for i, day := range view.Days {
		if day.Date != want[i] {
			t.Errorf("第 %d 天日期 = %s, 期望 %s", i, day.Date, want[i])
		}
	}
}

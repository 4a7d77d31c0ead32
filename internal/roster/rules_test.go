package roster

import (
	"errors"
	"testing"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}

func TestCheckDayWritable(t *testing.T) {
	today := mustDate(t, "2025-03-12")

	if err := CheckDayWritable(mustDate(t, "2025-03-11"), today); !errors.Is(err, ErrPastDateLocked) {
		t.Errorf("昨天应该被锁定，实际返回 %v", err)
	}
	if err := CheckDayWritable(today, today); err != nil {
		t.Errorf("今天应该允许修改，实际返回 %v", err)
	}
	if err := CheckDayWritable(mustDate(t, "2025-03-13"), today); err != nil {
		t.Errorf("明天应该允许修改，实际返回 %v", err)
	}
}

// 对应场景：模板要求 2 人，排 X、重复排 X、排 Y、再排 Z
func TestCheckAssignCapacityAndIdempotency(t *testing.T) {
	shift := &domain.ScheduledShift{
		ID:                1,
		RequiredCount:     2,
		Status:            domain.ShiftStatusDraft,
		AssignedWorkerIDs: []int64{},
	}

	// 排 X
	already, err := CheckAssign(shift, 100)
	if err != nil || already {
		t.Fatalf("第一次排 X 应该成功，already=%v err=%v", already, err)
	}
	shift.AssignedWorkerIDs = append(shift.AssignedWorkerIDs, 100)

	// 重复排 X：幂等成功，不是错误
	already, err = CheckAssign(shift, 100)
	if err != nil {
		t.Fatalf("重复排 X 不应该报错: %v", err)
	}
	if !already {
		t.Errorf("重复排 X 应该返回 alreadyAssigned")
	}

	// 排 Y
	already, err = CheckAssign(shift, 101)
	if err != nil || already {
		t.Fatalf("排 Y 应该成功，already=%v err=%v", already, err)
	}
	shift.AssignedWorkerIDs = append(shift.AssignedWorkerIDs, 101)

	// 排 Z：人数已满
	if _, err := CheckAssign(shift, 102); !errors.Is(err, ErrShiftFull) {
		t.Errorf("满员后再排人应该返回 ErrShiftFull，实际返回 %v", err)
	}

	// 满员后重复排已在班上的人仍然是幂等成功
	already, err = CheckAssign(shift, 101)
	if err != nil || !already {
		t.Errorf("满员后重复排 Y 应该幂等成功，already=%v err=%v", already, err)
	}
}

func TestCheckAssignUncapped(t *testing.T) {
	shift := &domain.ScheduledShift{
		RequiredCount:     0, // 不限人数
		Status:            domain.ShiftStatusDraft,
		AssignedWorkerIDs: []int64{1, 2, 3, 4, 5},
	}

	if _, err := CheckAssign(shift, 6); err != nil {
		t.Errorf("不限人数的班次不应该满员: %v", err)
	}
}

// 对应场景：发布后写入被拒绝，取消发布后恢复
func TestCheckAssignPublishLock(t *testing.T) {
	shift := &domain.ScheduledShift{
		RequiredCount:     2,
		Status:            domain.ShiftStatusPublished,
		AssignedWorkerIDs: []int64{},
	}

	if _, err := CheckAssign(shift, 100); !errors.Is(err, ErrWeekLocked) {
		t.Errorf("已发布的班次应该返回 ErrWeekLocked，实际返回 %v", err)
	}

	shift.Status = domain.ShiftStatusDraft
	if _, err := CheckAssign(shift, 100); err != nil {
		t.Errorf("取消发布后应该允许排班: %v", err)
	}
}

func TestCheckRemove(t *testing.T) {
	today := mustDate(t, "2025-03-12")

	// 已发布的班次不允许移除
	published := &domain.ScheduledShift{
		DayDate: mustDate(t, "2025-03-13"),
		Status:  domain.ShiftStatusPublished,
	}
	if err := CheckRemove(published, today); !errors.Is(err, ErrWeekLocked) {
		t.Errorf("已发布的班次应该返回 ErrWeekLocked，实际返回 %v", err)
	}

	// 过去的日期不允许移除，无论是否发布
	past := &domain.ScheduledShift{
		DayDate: mustDate(t, "2025-03-11"),
		Status:  domain.ShiftStatusDraft,
	}
	if err := CheckRemove(past, today); !errors.Is(err, ErrPastDateLocked) {
		t.Errorf("过去的日期应该返回 ErrPastDateLocked，实际返回 %v", err)
	}

	// 草稿状态、未过期的班次允许移除
	ok := &domain.ScheduledShift{
		DayDate: mustDate(t, "2025-03-13"),
		Status:  domain.ShiftStatusDraft,
	}
	if err := CheckRemove(ok, today); err != nil {
		t.Errorf("草稿班次应该允许移除: %v", err)
	}
}

func TestWeekStatusOf(t *testing.T) {
	// 没有任何班次实例的周永远是草稿
	if got := WeekStatusOf(nil); got != domain.ShiftStatusDraft {
		t.Errorf("空周状态 = %s, 期望 draft", got)
	}

	drafts := []*domain.ScheduledShift{
		{Status: domain.ShiftStatusDraft},
		{Status: domain.ShiftStatusDraft},
	}
	if got := WeekStatusOf(drafts); got != domain.ShiftStatusDraft {
		t.Errorf("全草稿周状态 = %s, 期望 draft", got)
	}

	// 只要有一个已发布，整周就算已发布（部分发布的中间态会自愈成已发布）
	mixed := append(drafts, &domain.ScheduledShift{Status: domain.ShiftStatusPublished})
	if got := WeekStatusOf(mixed); got != domain.ShiftStatusPublished {
		t.Errorf("混合周状态 = %s, 期望 published", got)
	}
}

// 对应场景：移除班次里唯一的排班不影响周的发布状态
func TestRemoveDoesNotChangeWeekStatus(t *testing.T) {
	shifts := []*domain.ScheduledShift{
		{ID: 1, Status: domain.ShiftStatusDraft, AssignedWorkerIDs: []int64{100}},
		{ID: 2, Status: domain.ShiftStatusDraft},
	}
	before := WeekStatusOf(shifts)

	shifts[0].AssignedWorkerIDs = nil // 移除唯一的排班，班次实例本身保留

	if got := WeekStatusOf(shifts); got != before {
		t.Errorf("移除排班后周状态从 %s 变成了 %s", before, got)
	}
}

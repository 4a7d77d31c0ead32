package roster

import (
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

// 这里集中了排班写操作的全部业务约束。
// 约束在每次写操作时都基于最新读出的数据复核，而不是信任调用方
// 上一次看到的周视图，因为视图到写请求之间班表随时可能被别人改过。

// CheckDayWritable 检查目标日期是否还允许修改，严格早于今天的日期会被锁定。
func CheckDayWritable(dayDate time.Time, today time.Time) error {
	if calendar.CivilDate(dayDate).Before(calendar.CivilDate(today)) {
		return ErrPastDateLocked
	}
	return nil
}

// CheckAssign 复核把 workerID 排进 shift 的约束。
// 返回 alreadyAssigned = true 表示该员工已经在这个班次中，调用方应该
// 把它当作幂等的成功处理。检查顺序：发布锁、重复排班、人数上限。
func CheckAssign(shift *domain.ScheduledShift, workerID int64) (alreadyAssigned bool, err error) {
	if shift.Status == domain.ShiftStatusPublished {
		return false, ErrWeekLocked
	}

	for _, id := range shift.AssignedWorkerIDs {
		if id == workerID {
			return true, nil
		}
	}

	// RequiredCount 为 0 表示不限人数
	if shift.RequiredCount > 0 && len(shift.AssignedWorkerIDs) >= int(shift.RequiredCount) {
		return false, ErrShiftFull
	}

	return false, nil
}

// CheckRemove 复核把 workerID 从 shift 中移除的约束。
// 被移除的排班是否存在由存储层判断，这里只管日期锁和发布锁。
func CheckRemove(shift *domain.ScheduledShift, today time.Time) error {
	if err := CheckDayWritable(shift.DayDate, today); err != nil {
		return err
	}
	if shift.Status == domain.ShiftStatusPublished {
		return ErrWeekLocked
	}
	return nil
}

// WeekStatusOf 推导一周的发布状态：只要有一个班次实例已发布，整周就算已发布。
// 状态永远是对班次行的折叠，不单独存储，这样部分发布的中间态会自愈，
// 没有任何班次实例的周天然就是草稿。
func WeekStatusOf(shifts []*domain.ScheduledShift) domain.ShiftStatus {
	for _, s := range shifts {
		if s.Status == domain.ShiftStatusPublished {
			return domain.ShiftStatusPublished
		}
	}
	return domain.ShiftStatusDraft
}

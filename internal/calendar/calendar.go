package calendar

import (
	"errors"
	"time"
)

// 周以周日作为第一天，所有日期运算都基于 UTC 的日历日期，
// 避免夏令时等时区问题导致的差一天错误。

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("无效的日期")

// ParseDate 解析 YYYY-MM-DD 格式的日期。
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CivilDate 把任意时刻归一化成 UTC 下的日历日期（零点）。
func CivilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeToWeekStart 返回不晚于 t 的那个周日，幂等。
func NormalizeToWeekStart(t time.Time) time.Time {
	d := CivilDate(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func AddDays(t time.Time, n int) time.Time {
	return CivilDate(t).AddDate(0, 0, n)
}

// WeekdayIndex 返回 0~6 的星期序号，0 表示周日。
func WeekdayIndex(t time.Time) int {
	return int(CivilDate(t).Weekday())
}

// Today 返回当前的 UTC 日历日期，用于判断某天是否已经过去。
func Today() time.Time {
	return CivilDate(time.Now())
}

package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 {
		t.Errorf("解析结果错误: %v", d)
	}

	if _, err := ParseDate("2025/03/09"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("格式错误的日期应该返回 ErrInvalidDate，实际返回 %v", err)
	}
	if _, err := ParseDate(""); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("空字符串应该返回 ErrInvalidDate，实际返回 %v", err)
	}
}

func TestNormalizeToWeekStart(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2025-03-09", "2025-03-09"}, // 周日本身
		{"2025-03-10", "2025-03-09"}, // 周一
		{"2025-03-15", "2025-03-09"}, // 周六
		{"2025-01-01", "2024-12-29"}, // 跨年
	}

	for _, c := range cases {
		d, err := ParseDate(c.input)
		if err != nil {
			t.Fatalf("解析日期失败: %v", err)
		}
		got := NormalizeToWeekStart(d)
		if FormatDate(got) != c.want {
			t.Errorf("NormalizeToWeekStart(%s) = %s, 期望 %s", c.input, FormatDate(got), c.want)
		}
		if got.Weekday() != time.Sunday {
			t.Errorf("NormalizeToWeekStart(%s) 不是周日", c.input)
		}
		// 幂等性
		if !NormalizeToWeekStart(got).Equal(got) {
			t.Errorf("NormalizeToWeekStart 不幂等: %s", c.input)
		}
	}
}

func TestNormalizeToWeekStartIgnoresClock(t *testing.T) {
	// 非零点的时刻也应该归一化到同一个周日
	loc := time.FixedZone("UTC+8", 8*3600)
	d := time.Date(2025, 3, 12, 23, 30, 0, 0, loc)
	got := NormalizeToWeekStart(d)
	if FormatDate(got) != "2025-03-09" {
		t.Errorf("NormalizeToWeekStart = %s, 期望 2025-03-09", FormatDate(got))
	}
}

func TestAddDays(t *testing.T) {
	d, _ := ParseDate("2025-03-09")
	if FormatDate(AddDays(d, 6)) != "2025-03-15" {
		t.Errorf("AddDays(+6) 错误: %s", FormatDate(AddDays(d, 6)))
	}
	if FormatDate(AddDays(d, -1)) != "2025-03-08" {
		t.Errorf("AddDays(-1) 错误: %s", FormatDate(AddDays(d, -1)))
	}
}

func TestWeekdayIndex(t *testing.T) {
	sunday, _ := ParseDate("2025-03-09")
	for i := 0; i < 7; i++ {
		if got := WeekdayIndex(AddDays(sunday, i)); got != i {
			t.Errorf("WeekdayIndex(周日+%d) = %d, 期望 %d", i, got, i)
		}
	}
}

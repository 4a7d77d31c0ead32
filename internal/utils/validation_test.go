package utils

import (
	"testing"

	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

func TestValidateShiftTemplateTime(t *testing.T) {
	cases := []struct {
		name      string
		startTime string
		endTime   string
		wantErr   bool
	}{
		{"正常的早班", "09:00:00", "12:00:00", false},
		{"结束时间早于开始时间", "12:00:00", "09:00:00", true},
		{"结束时间等于开始时间", "09:00:00", "09:00:00", true},
		{"开始时间格式错误", "9点", "12:00:00", true},
		{"结束时间格式错误", "09:00:00", "中午", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			template := &domain.ShiftTemplate{
				Name:      "早班",
				StartTime: tc.startTime,
				EndTime:   tc.endTime,
			}

			err := ValidateShiftTemplateTime(template)
			if tc.wantErr && err == nil {
				t.Errorf("期望校验失败，但没有返回错误")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("期望校验通过，但返回了错误: %v", err)
			}
		})
	}
}

func TestGenerateRandomShiftTemplates(t *testing.T) {
	templates := GenerateRandomShiftTemplates(1)

	seenDays := make(map[int32]bool)
	for _, template := range templates {
		if template.DayOfWeek < 0 || template.DayOfWeek > 6 {
			t.Fatalf("星期序号超出范围: %d", template.DayOfWeek)
		}
		seenDays[template.DayOfWeek] = true

		if err := ValidateShiftTemplateTime(template); err != nil {
			t.Errorf("生成的模板时间不合法: %v", err)
		}
	}

	if len(seenDays) != 7 {
		t.Errorf("期望每天都有班次模板，实际覆盖了 %d 天", len(seenDays))
	}
}

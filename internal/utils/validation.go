package utils

import (
	"errors"
	"time"

	"github.com/weekroster-dev/weekroster/backend/internal/domain"
)

// ValidateShiftTemplateTime 检查班次模板的起止时间格式和先后顺序。
func ValidateShiftTemplateTime(t *domain.ShiftTemplate) error {
	startTime, err := time.Parse("15:04:05", t.StartTime)
	if err != nil {
		return errors.New("开始时间格式错误")
	}
	endTime, err := time.Parse("15:04:05", t.EndTime)
	if err != nil {
		return errors.New("结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return errors.New("结束时间必须晚于开始时间")
	}
	return nil
}

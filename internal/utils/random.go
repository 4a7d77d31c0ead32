package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/weekroster-dev/weekroster/backend/internal/calendar"
	"github.com/weekroster-dev/weekroster/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleWorker,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var shiftNames = []string{"早班", "午班", "晚班", "夜班"}

// GenerateRandomShiftTemplates 为一个工作区随机生成每天的班次模板。
// 每天 1~4 个班次，按时间顺序排布，互不重叠。
func GenerateRandomShiftTemplates(workspaceID int64) []*domain.ShiftTemplate {
	templates := make([]*domain.ShiftTemplate, 0)

	for day := int32(0); day < 7; day++ {
		shiftsNum := rand.Intn(4) + 1
		hourPerShift := 24 / shiftsNum

		for i := 0; i < shiftsNum; i++ {
			startHour := i * hourPerShift
			endHour := rand.Intn(hourPerShift) + startHour

			startMinute := rand.Intn(30)    // 0~29
			endMinute := rand.Intn(30) + 30 // 30~59

			templates = append(templates, &domain.ShiftTemplate{
				WorkspaceID:   workspaceID,
				DayOfWeek:     day,
				Name:          shiftNames[i%len(shiftNames)],
				StartTime:     fmt.Sprintf("%02d:%02d:00", startHour, startMinute),
				EndTime:       fmt.Sprintf("%02d:%02d:00", endHour, endMinute),
				SortOrder:     int32(i),
				RequiredCount: int32(rand.Intn(4)),
				IsActive:      true,
			})
		}
	}

	return templates
}

// GenerateRandomSubmission 为一名员工随机生成某一周的空闲时间提交：
// 从该周每天生效的模板中随机挑一部分。
func GenerateRandomSubmission(workspaceID int64, userID int64, weekStart time.Time, templates []*domain.ShiftTemplate) *domain.AvailabilitySubmission {
	submission := &domain.AvailabilitySubmission{
		WorkspaceID:   workspaceID,
		UserID:        userID,
		WeekStartDate: weekStart,
		Items:         make([]domain.AvailabilityItem, 0),
	}

	for _, t := range templates {
		if rand.Intn(2) == 0 {
			continue
		}
		submission.Items = append(submission.Items, domain.AvailabilityItem{
			DayDate:         calendar.AddDays(weekStart, int(t.DayOfWeek)),
			ShiftTemplateID: t.ID,
		})
	}

	return submission
}

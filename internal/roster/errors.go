package roster

import "errors"

// 排班核心的各类失败原因，handler 层会把它们映射成不同的 HTTP 状态码。
// 注意 "重复排同一个人" 不在这里：它是幂等的成功结果，不是错误。
var (
	ErrInvalidInput       = errors.New("缺少必要的参数")
	ErrForbidden          = errors.New("没有该工作区的管理权限")
	ErrInvalidWeekStart   = errors.New("无效的周起始日期")
	ErrInvalidDate        = errors.New("无效的日期")
	ErrPastDateLocked     = errors.New("不能修改今天之前的排班")
	ErrWeekLocked         = errors.New("该周班表已发布，请先取消发布再修改")
	ErrShiftFull          = errors.New("该班次人数已满")
	ErrShiftNotFound      = errors.New("班次实例不存在")
	ErrAssignmentNotFound = errors.New("该员工未被排进这个班次")
	ErrTemplateNotFound   = errors.New("班次模板不存在")
)

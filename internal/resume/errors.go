package resume

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrUnauthenticated  = errors.New("未认证的请求")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrDocumentNotFound = errors.New("归档文档不存在")
	ErrValidation       = errors.New("请求数据格式不正确")
	ErrStorage          = errors.New("存储操作失败")
	ErrRendering        = errors.New("文档渲染失败")
)

// PipelineError 包含详细错误信息的自定义错误
// 原始原因只用于日志，不会透出给调用方
type PipelineError struct {
	UserID  string
	Op      string
	BaseErr error
	Detail  string
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 用户:%s): %s", e.BaseErr, e.Op, e.UserID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 用户:%s)", e.BaseErr, e.Op, e.UserID)
}

func (e *PipelineError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewStorageError 存储读写失败
func NewStorageError(userID, op string, cause error) error {
	return &PipelineError{
		UserID:  userID,
		Op:      op,
		BaseErr: ErrStorage,
		Detail:  cause.Error(),
	}
}

// NewRenderingError 渲染阶段失败
func NewRenderingError(userID string, cause error) error {
	return &PipelineError{
		UserID:  userID,
		Op:      "render",
		BaseErr: ErrRendering,
		Detail:  cause.Error(),
	}
}

// NewValidationError 请求体形状不符合预期
func NewValidationError(detail string) error {
	return &PipelineError{
		Op:      "validate",
		BaseErr: ErrValidation,
		Detail:  detail,
	}
}

// Package xerrors 提供带错误码的标准化错误处理工具。
//
// 各组件在自己的 errors.go 中用 New / WithCode 声明哨兵错误，
// 调用方通过 Is 判断错误类型，通过 GetCode 取得机器可读的错误码。
package xerrors

import (
	"errors"
	"fmt"
)

// Code 机器可读的错误码，由各组件在自己的 errors.go 中定义
type Code string

// Wrap 用上下文信息包装错误，保留错误链。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// CodedError 带有错误码的错误
type CodedError struct {
	Code  Code
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s]", e.Code)
	}
	return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WithCode 为错误附加错误码，err 为 nil 时返回 nil。
func WithCode(err error, code Code) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Cause: err}
}

// NewCoded 创建一个带错误码的新错误，常用于声明哨兵错误。
func NewCoded(code Code, msg string) error {
	return &CodedError{Code: code, Cause: errors.New(msg)}
}

// GetCode 从错误链中提取最外层的错误码，没有则返回空串。
func GetCode(err error) Code {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// Combine 合并多个错误，忽略 nil。
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}

// 标准库函数再导出
var (
	New    = errors.New
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

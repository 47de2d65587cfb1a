// Package errors 定义目录引擎的错误代码与应用错误类型
//
// 上层通过 IsErrorCode 及其快捷函数按类别判断，不依赖错误消息文本。
package errors

import (
	stdErrors "errors"
	"fmt"
	"maps"
)

// ErrorCode 错误代码
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"

	// 持久化
	ErrCodeStorageRead  ErrorCode = "STORAGE_READ_ERROR"
	ErrCodeStorageWrite ErrorCode = "STORAGE_WRITE_ERROR"
)

// IError 带错误代码的错误
type IError interface {
	error

	Code() ErrorCode
	Message() string
	Cause() error
	Details() map[string]any

	// WithContext 返回附加一条详情后的副本
	WithContext(key string, value any) IError
}

// AppError IError 的实现，创建后不可变
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	details map[string]any
}

// NewError 创建错误
func NewError(code ErrorCode, message string) IError {
	return &AppError{code: code, message: message}
}

// WrapError 包装 err，err 为 nil 时返回 nil
func WrapError(err error, code ErrorCode, message string) IError {
	if err == nil {
		return nil
	}
	return &AppError{code: code, message: message, cause: err}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *AppError) Code() ErrorCode { return e.code }
func (e *AppError) Message() string { return e.message }
func (e *AppError) Cause() error    { return e.cause }

// Details 详情副本，没有详情时返回空 map
func (e *AppError) Details() map[string]any {
	out := make(map[string]any, len(e.details))
	maps.Copy(out, e.details)
	return out
}

func (e *AppError) WithContext(key string, value any) IError {
	details := e.Details()
	details[key] = value
	return &AppError{code: e.code, message: e.message, cause: e.cause, details: details}
}

// Is 同代码的 AppError 视为同类，否则交给 cause 判断
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.code == appErr.code
	}
	if e.cause != nil {
		return stdErrors.Is(e.cause, target)
	}
	return false
}

func (e *AppError) Unwrap() error { return e.cause }

// 类别哨兵，用于 errors.Is
var (
	ErrInternal     = NewError(ErrCodeInternal, "internal error")
	ErrInvalidInput = NewError(ErrCodeInvalidInput, "invalid input")
	ErrNotFound     = NewError(ErrCodeNotFound, "product not found")
	ErrValidation   = NewError(ErrCodeValidation, "validation failed")
	ErrStorageRead  = NewError(ErrCodeStorageRead, "storage read failed")
	ErrStorageWrite = NewError(ErrCodeStorageWrite, "storage write failed")
)

func IsNotFound(err error) bool   { return IsErrorCode(err, ErrCodeNotFound) }
func IsValidation(err error) bool { return IsErrorCode(err, ErrCodeValidation) }

// IsStorage 读或写持久化错误
func IsStorage(err error) bool {
	return IsErrorCode(err, ErrCodeStorageRead) || IsErrorCode(err, ErrCodeStorageWrite)
}

// IsErrorCode 检查错误链中最外层 AppError 的代码
func IsErrorCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// GetErrorCode 错误代码；非 AppError 归为 INTERNAL_ERROR，nil 返回空
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code
	}
	return ErrCodeInternal
}

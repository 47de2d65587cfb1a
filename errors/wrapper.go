package errors

import (
	"context"
	"fmt"
	"runtime"

	"katalog/logging"
)

// WrapWithLog 包装错误并通过 logger 记录警告日志，logger 为空时使用默认 Logger
func WrapWithLog(ctx context.Context, logger logging.Logger, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)
	logger.Warn(ctx, msg, allFields...)

	return wrapped
}

// WrapStorageError 将存储后端错误归类为读/写错误
func WrapStorageError(ctx context.Context, logger logging.Logger, err error, write bool, backend string) error {
	if err == nil {
		return nil
	}
	code, op := ErrCodeStorageRead, "read"
	if write {
		code, op = ErrCodeStorageWrite, "write"
	}
	return WrapWithLog(ctx, logger, err, code,
		fmt.Sprintf("storage %s failed", op),
		logging.String("backend", backend),
	)
}

// NewValidationError 创建验证错误，details 为字段到消息的映射
func NewValidationError(fieldErrors map[string]string) IError {
	e := NewError(ErrCodeValidation, fmt.Sprintf("%d field(s) invalid", len(fieldErrors)))
	for field, msg := range fieldErrors {
		e = e.WithContext(field, msg)
	}
	return e
}

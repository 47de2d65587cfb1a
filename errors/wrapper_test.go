package errors

import (
	"bytes"
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katalog/logging"
)

// TestWrapError 测试基本错误包装
func TestWrapError(t *testing.T) {
	original := stdErrors.New("原始错误")

	wrapped := WrapError(original, ErrCodeInternal, "包装消息")

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, original)
	assert.Equal(t, ErrCodeInternal, GetErrorCode(wrapped))
	assert.Contains(t, wrapped.Error(), "包装消息")
}

// TestWrap_NilError 测试包装nil错误
func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrCodeInternal, "消息"))
	assert.NoError(t, WrapWithLog(context.Background(), nil, nil, ErrCodeInternal, "消息"))
	assert.NoError(t, WrapStorageError(context.Background(), nil, nil, true, "memory"))
}

// TestWrapWithLog 测试包装时输出警告日志
func TestWrapWithLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStdLoggerTo(&buf, "", logging.DebugLevel)

	err := WrapWithLog(context.Background(), logger, stdErrors.New("boom"), ErrCodeStorageWrite, "save catalog",
		logging.String("key", "products"))

	assert.True(t, IsStorage(err))
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "error_code=STORAGE_WRITE_ERROR")
	assert.Contains(t, buf.String(), "key=products")
}

// TestWrapStorageError 测试读写错误分类
func TestWrapStorageError(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNoopLogger()
	cause := stdErrors.New("connection refused")

	readErr := WrapStorageError(ctx, logger, cause, false, "redis")
	writeErr := WrapStorageError(ctx, logger, cause, true, "redis")

	assert.True(t, IsErrorCode(readErr, ErrCodeStorageRead))
	assert.True(t, IsErrorCode(writeErr, ErrCodeStorageWrite))
	assert.ErrorIs(t, writeErr, ErrStorageWrite)
	assert.NotErrorIs(t, writeErr, ErrStorageRead)
	assert.ErrorIs(t, readErr, cause)
}

// TestNewValidationError 测试验证错误携带字段详情
func TestNewValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{
		"name":        "Minimal 3 karakter.",
		"description": "Deskripsi maksimal 200 karakter.",
	})

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "Minimal 3 karakter.", err.Details()["name"])
	assert.Len(t, err.Details(), 2)
}

// TestGetErrorCode 测试非 AppError 的默认代码
func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
	assert.Equal(t, ErrCodeInternal, GetErrorCode(stdErrors.New("plain")))
	assert.Equal(t, ErrCodeNotFound, GetErrorCode(ErrNotFound.WithContext("id", int64(7))))
}

func TestWithContext_DoesNotMutateOriginal(t *testing.T) {
	base := NewError(ErrCodeNotFound, "product not found")
	withID := base.WithContext("id", int64(3))

	assert.Empty(t, base.Details())
	assert.Equal(t, int64(3), withID.Details()["id"])
	assert.ErrorIs(t, withID, ErrNotFound)

	d := withID.Details()
	d["id"] = int64(9)
	assert.Equal(t, int64(3), withID.Details()["id"], "Details returns a copy")
}

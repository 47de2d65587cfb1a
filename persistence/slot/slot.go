// Package slot 定义持久化键值槽位的抽象
//
// 槽位只负责按键读写原始字节，编解码与回退逻辑由 persistence.Gateway 负责。
package slot

import (
	"context"
	stdErrors "errors"
	"io"
)

// ErrEmpty 键不存在
var ErrEmpty = stdErrors.New("slot: key not found")

// ISlot 持久化键值槽位
type ISlot interface {
	// Read 读取键的内容，键不存在时返回 ErrEmpty
	Read(ctx context.Context, key string) ([]byte, error)

	// Write 覆盖写入键的内容
	Write(ctx context.Context, key string, data []byte) error

	// Backend 后端名称，用于日志
	Backend() string
}

// Close 关闭实现了 io.Closer 的槽位
func Close(s ISlot) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

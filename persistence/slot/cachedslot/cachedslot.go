// Package cachedslot 为远程槽位加一层进程内读缓存
//
// 写入先落到底层槽位，成功后刷新缓存；写入失败时丢弃缓存条目，下一次读取回源。
package cachedslot

import (
	"context"
	stdErrors "errors"
	"time"

	"katalog/cache"
	"katalog/persistence/slot"
)

// DefaultMaxKeys 缓存的最大键数
const DefaultMaxKeys = 16

// Slot 读缓存装饰器
type Slot struct {
	inner slot.ISlot
	cache *cache.Cache[string, []byte]
}

// Options 缓存配置
type Options struct {
	TTL     time.Duration
	MaxKeys int
	Now     func() time.Time
}

// New 包装 inner；TTL 为 0 时条目不过期
func New(inner slot.ISlot, opts Options) *Slot {
	if opts.MaxKeys <= 0 {
		opts.MaxKeys = DefaultMaxKeys
	}
	return &Slot{
		inner: inner,
		cache: cache.New[string, []byte](cache.Config{
			Name:    "slot:" + inner.Backend(),
			MaxSize: opts.MaxKeys,
			TTL:     opts.TTL,
			Now:     opts.Now,
		}),
	}
}

// Read 命中缓存时不访问底层槽位；ErrEmpty 不缓存
func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	if b, ok := s.cache.Get(key); ok {
		return append([]byte(nil), b...), nil
	}
	b, err := s.inner.Read(ctx, key)
	if err != nil {
		if stdErrors.Is(err, slot.ErrEmpty) {
			s.cache.Delete(key)
		}
		return nil, err
	}
	s.cache.Set(key, append([]byte(nil), b...))
	return b, nil
}

func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	if err := s.inner.Write(ctx, key, data); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, append([]byte(nil), data...))
	return nil
}

func (s *Slot) Backend() string { return s.inner.Backend() + "+cache" }

// Stats 缓存命中统计
func (s *Slot) Stats() cache.Stats { return s.cache.Stats() }

// Close 关闭底层槽位
func (s *Slot) Close() error { return slot.Close(s.inner) }

// Package memslot 进程内存槽位，用于测试与无持久化运行
package memslot

import (
	"context"
	"sync"

	"katalog/persistence/slot"
)

// Slot 基于 map 的内存槽位
type Slot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New 创建空的内存槽位
func New() *Slot {
	return &Slot{data: make(map[string][]byte)}
}

func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return nil, slot.ErrEmpty
	}
	return append([]byte(nil), b...), nil
}

func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *Slot) Backend() string { return "memory" }

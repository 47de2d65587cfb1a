// Package snowflake 提供产品 ID 生成器（雪花算法）
//
// ID 由毫秒时间戳、工作节点号与毫秒内序列号组成，同一生成器产生的 ID 严格递增，
// 因而 ID 顺序与创建顺序一致。
package snowflake

import (
	"errors"
	"sync"
	"time"
)

const (
	// 起始时间戳 (2024-01-01 00:00:00 UTC)
	Epoch int64 = 1704067200000

	workerIDBits = 10
	sequenceBits = 12

	MaxWorkerID = -1 ^ (-1 << workerIDBits) // 1023
	maxSequence = -1 ^ (-1 << sequenceBits) // 4095

	workerIDShift      = sequenceBits
	timestampLeftShift = sequenceBits + workerIDBits
)

var (
	ErrWorkerIDRange  = errors.New("snowflake: worker ID out of range")
	ErrClockBackwards = errors.New("snowflake: clock moved backwards, refusing to generate id")
)

// Generator Snowflake ID生成器
type Generator struct {
	mux           sync.Mutex
	workerID      int64
	sequence      int64
	lastTimestamp int64
	now           func() time.Time
}

// Option 生成器选项
type Option func(*Generator)

// WithClock 替换时间源（用于测试）
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator 创建ID生成器
func NewGenerator(workerID int64, opts ...Option) (*Generator, error) {
	if workerID < 0 || workerID > MaxWorkerID {
		return nil, ErrWorkerIDRange
	}

	g := &Generator{
		workerID:      workerID,
		lastTimestamp: -1,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Generator) millis() int64 {
	return g.now().UnixMilli()
}

// NextID 生成下一个ID
func (g *Generator) NextID() (int64, error) {
	g.mux.Lock()
	defer g.mux.Unlock()

	now := g.millis()

	if now < g.lastTimestamp {
		return 0, ErrClockBackwards
	}

	if now == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// 序列号用完，等待下一毫秒
			for now <= g.lastTimestamp {
				time.Sleep(100 * time.Microsecond)
				now = g.millis()
			}
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = now

	id := ((now - Epoch) << timestampLeftShift) |
		(g.workerID << workerIDShift) |
		g.sequence

	return id, nil
}

// Parts 解析后的 ID 组成部分
type Parts struct {
	Timestamp time.Time
	WorkerID  int64
	Sequence  int64
}

// Parse 解析ID
func Parse(id int64) Parts {
	return Parts{
		Timestamp: time.UnixMilli((id >> timestampLeftShift) + Epoch),
		WorkerID:  (id >> workerIDShift) & MaxWorkerID,
		Sequence:  id & maxSequence,
	}
}

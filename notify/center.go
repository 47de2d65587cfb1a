// Package notify 维护单条自动过期的状态通知
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"katalog/logging"
)

// DefaultTTL 通知默认展示时长
const DefaultTTL = 3000 * time.Millisecond

// Severity 通知级别
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// Notification 当前通知
type Notification struct {
	Token     uuid.UUID
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// ITimer 可取消的定时器
type ITimer interface {
	Stop() bool
}

// IScheduler 延迟执行调度器，默认基于 time.AfterFunc
type IScheduler interface {
	AfterFunc(d time.Duration, f func()) ITimer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) ITimer {
	return time.AfterFunc(d, f)
}

// Config 通知中心配置
type Config struct {
	// TTL 小于等于 0 时使用 DefaultTTL
	TTL       time.Duration
	Scheduler IScheduler
	Now       func() time.Time
	Logger    logging.Logger

	// OnChange 通知出现、替换、过期或关闭后调用，参数为 nil 表示已清空
	OnChange func(n *Notification)
}

// Center 通知中心
//
// 同一时刻至多一条通知，新通知替换旧通知并重新计时。
// 每条通知带唯一 Token，旧定时器触发时 Token 不匹配即忽略。
type Center struct {
	mu        sync.Mutex
	current   *Notification
	timer     ITimer
	ttl       time.Duration
	scheduler IScheduler
	now       func() time.Time
	logger    logging.Logger
	onChange  func(*Notification)
}

// NewCenter 创建通知中心
func NewCenter(cfg Config) *Center {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = realScheduler{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger()
	}
	return &Center{
		ttl:       cfg.TTL,
		scheduler: cfg.Scheduler,
		now:       cfg.Now,
		logger:    logging.ComponentLogger(cfg.Logger, "notify"),
		onChange:  cfg.OnChange,
	}
}

// Notify 设置当前通知并安排自动清除
func (c *Center) Notify(message string, severity Severity) Notification {
	n := Notification{
		Token:     uuid.New(),
		Message:   message,
		Severity:  severity,
		ExpiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.current = &n
	token := n.Token
	c.timer = c.scheduler.AfterFunc(c.ttl, func() { c.expire(token) })
	c.mu.Unlock()

	c.emit(&n)
	return n
}

// Dismiss 立即清除当前通知
func (c *Center) Dismiss() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
	c.mu.Unlock()

	c.emit(nil)
}

// Current 返回当前通知
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

func (c *Center) expire(token uuid.UUID) {
	c.mu.Lock()
	if c.current == nil || c.current.Token != token {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	c.mu.Unlock()

	c.logger.Debug(context.Background(), "notification expired", logging.String("token", token.String()))
	c.emit(nil)
}

func (c *Center) emit(n *Notification) {
	if c.onChange == nil {
		return
	}
	if n != nil {
		cp := *n
		n = &cp
	}
	c.onChange(n)
}

// Package cache 进程内 LRU 缓存，条目按写入时间过期
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Cache 泛型 LRU 缓存，并发安全
//
// 超过 MaxSize 时驱逐最久未使用的条目；TTL > 0 时条目自写入起 TTL 后失效。
type Cache[K comparable, V any] struct {
	name   string
	config Config

	mu      sync.Mutex
	items   map[K]*list.Element
	lruList *list.List // 最近使用的在前
	stats   Stats
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // 零值表示不过期
}

// Config 缓存配置
type Config struct {
	Name string

	// MaxSize 最大条目数，<= 0 表示不限
	MaxSize int

	// TTL 自写入起的有效期，0 表示永不过期
	TTL time.Duration

	// Now 时钟，测试时注入
	Now func() time.Time
}

// Stats 命中统计
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Expires   int64
	Size      int
}

// New 创建缓存
func New[K comparable, V any](config Config) *Cache[K, V] {
	if config.Name == "" {
		config.Name = "unnamed"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Cache[K, V]{
		name:    config.Name,
		config:  config,
		items:   make(map[K]*list.Element),
		lruList: list.New(),
	}
}

// Get 读取未过期的条目
func (c *Cache[K, V]) Get(key K) (value V, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return value, false
	}
	e := el.Value.(*entry[K, V])
	if !e.expiresAt.IsZero() && !c.config.Now().Before(e.expiresAt) {
		c.removeLocked(el)
		c.stats.Misses++
		c.stats.Expires++
		return value, false
	}

	c.lruList.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

// Set 写入或覆盖条目，并重置其有效期
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.config.TTL > 0 {
		expiresAt = c.config.Now().Add(c.config.TTL)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.lruList.MoveToFront(el)
		return
	}

	if c.config.MaxSize > 0 && len(c.items) >= c.config.MaxSize {
		if oldest := c.lruList.Back(); oldest != nil {
			c.removeLocked(oldest)
			c.stats.Evictions++
		}
	}

	c.items[key] = c.lruList.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
}

// Delete 删除条目，返回是否存在
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeLocked(el)
	return true
}

// Clear 清空
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element)
	c.lruList.Init()
}

// Stats 统计副本
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.items)
	return s
}

// Len 当前条目数（含尚未清理的过期条目）
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[K, V]) removeLocked(el *list.Element) {
	e := c.lruList.Remove(el).(*entry[K, V])
	delete(c.items, e.key)
}

func (c *Cache[K, V]) String() string {
	s := c.Stats()
	return fmt.Sprintf("Cache[%s]: size=%d/%d, hits=%d, misses=%d, evictions=%d, expires=%d",
		c.name, s.Size, c.config.MaxSize, s.Hits, s.Misses, s.Evictions, s.Expires)
}

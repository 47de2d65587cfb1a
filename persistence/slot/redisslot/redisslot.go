// Package redisslot 基于 Redis 字符串键的槽位
package redisslot

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"katalog/logging"
	"katalog/persistence/slot"
)

// client 槽位依赖的 go-redis 命令子集（便于测试替换）
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Config Redis 连接与键配置
type Config struct {
	Client   redis.UniversalClient
	Addr     string
	Username string
	Password string
	DB       int

	// KeyPrefix 拼接在槽位键之前，默认 "katalog:"
	KeyPrefix string
	Logger    logging.Logger
}

// Slot Redis 槽位
type Slot struct {
	client    client
	ownClient bool
	prefix    string
	logger    logging.Logger
}

// New 创建 Redis 槽位；未提供 Client 时按 Addr 建立连接并检查连通性
func New(ctx context.Context, cfg Config) (*Slot, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "katalog:"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "slot.redis"))
	}

	if cfg.Client != nil {
		return newSlot(cfg.Client, false, cfg), nil
	}
	if cfg.Addr == "" {
		return nil, stdErrors.New("redisslot: addr not configured")
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redisslot: ping %s: %w", cfg.Addr, err)
	}
	cfg.Logger.Info(ctx, "redis slot connected", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return newSlot(rc, true, cfg), nil
}

func newSlot(c client, own bool, cfg Config) *Slot {
	return &Slot{client: c, ownClient: own, prefix: cfg.KeyPrefix, logger: cfg.Logger}
}

func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if stdErrors.Is(err, redis.Nil) {
			return nil, slot.ErrEmpty
		}
		return nil, fmt.Errorf("redisslot: get %q: %w", s.prefix+key, err)
	}
	return data, nil
}

func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redisslot: set %q: %w", s.prefix+key, err)
	}
	return nil
}

func (s *Slot) Backend() string { return "redis" }

// Close 关闭自行创建的连接
func (s *Slot) Close() error {
	if !s.ownClient {
		return nil
	}
	return s.client.Close()
}

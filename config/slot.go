package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"katalog/logging"
	"katalog/persistence/slot"
	"katalog/persistence/slot/cachedslot"
	"katalog/persistence/slot/fileslot"
	"katalog/persistence/slot/memslot"
	"katalog/persistence/slot/natsslot"
	"katalog/persistence/slot/redisslot"
	"katalog/persistence/slot/sqlslot"
)

// OpenSlot 按 Storage 创建持久化槽位，调用方负责 slot.Close
func (c *Config) OpenSlot(ctx context.Context, logger logging.Logger) (slot.ISlot, error) {
	switch c.Storage {
	case StorageMemory:
		return memslot.New(), nil

	case StorageFile:
		s, err := fileslot.NewOS(c.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil

	case StorageSQLite:
		if c.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(c.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("config: create sqlite dir: %w", err)
			}
		}
		s, err := sqlslot.Open(ctx, c.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case StorageRedis:
		s, err := redisslot.New(ctx, redisslot.Config{
			Addr:      c.RedisAddr,
			Password:  c.RedisPassword,
			DB:        c.RedisDB,
			KeyPrefix: c.RedisPrefix,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		return c.withCache(s), nil

	case StorageNATS:
		s, err := natsslot.New(ctx, natsslot.Config{
			URL:    c.NATSURL,
			Bucket: c.NATSBucket,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		return c.withCache(s), nil

	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", c.Storage)
	}
}

func (c *Config) withCache(s slot.ISlot) slot.ISlot {
	if c.CacheTTL <= 0 {
		return s
	}
	return cachedslot.New(s, cachedslot.Options{TTL: c.CacheTTL})
}

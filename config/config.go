// Package config 从环境变量（前缀 KATALOG_）加载运行配置，并据此构建日志器与持久化槽位
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"

	"katalog/codegen/snowflake"
	"katalog/domain/product"
	"katalog/errors"
	"katalog/logging"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "KATALOG"

// 存储后端
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageNATS   = "nats"
)

// Config 运行配置
type Config struct {
	Variant string `envconfig:"VARIANT" default:"simple"`
	Storage string `envconfig:"STORAGE" default:"file"`

	// DataDir 为空时使用 $XDG_DATA_HOME/katalog
	DataDir    string `envconfig:"DATA_DIR"`
	SQLitePath string `envconfig:"SQLITE_PATH"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"katalog:"`

	NATSURL    string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSBucket string `envconfig:"NATS_BUCKET" default:"KATALOG"`

	// CacheTTL > 0 时为 redis/nats 槽位加进程内读缓存
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"0"`

	NotifyTTL time.Duration `envconfig:"NOTIFY_TTL" default:"3s"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string        `envconfig:"LOG_FORMAT" default:"text"`
	WorkerID  int64         `envconfig:"WORKER_ID" default:"1"`
}

// Load 读取环境变量并补全默认值
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "load config from environment")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultDataDir 默认数据目录
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "katalog")
}

// Normalize 统一大小写并补全依赖其他字段的默认值
func (c *Config) Normalize() {
	c.Variant = strings.ToLower(strings.TrimSpace(c.Variant))
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "katalog.db")
	}
}

// Validate 校验枚举值与取值范围
func (c *Config) Validate() error {
	if _, err := product.PolicyFor(product.Variant(c.Variant)); err != nil {
		return err
	}
	switch c.Storage {
	case StorageMemory, StorageFile, StorageSQLite, StorageRedis, StorageNATS:
	default:
		return errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown storage backend %q (memory|file|sqlite|redis|nats)", c.Storage))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.WrapError(err, errors.ErrCodeInvalidInput, "invalid log level")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown log format %q (text|json)", c.LogFormat))
	}
	if c.WorkerID < 0 || c.WorkerID > snowflake.MaxWorkerID {
		return errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("worker id %d out of range [0, %d]", c.WorkerID, snowflake.MaxWorkerID))
	}
	if c.NotifyTTL <= 0 {
		return errors.NewError(errors.ErrCodeInvalidInput, "notify ttl must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.NewError(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// Policy 配置选择的变体策略
func (c *Config) Policy() product.Policy {
	p, err := product.PolicyFor(product.Variant(c.Variant))
	if err != nil {
		return product.SimplePolicy()
	}
	return p
}

// NewLogger 按配置创建 logrus 日志器
func (c *Config) NewLogger(w io.Writer) logging.Logger {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.NewLogrusLogger(logging.LogrusOptions{
		Output: w,
		Level:  level,
		JSON:   strings.EqualFold(c.LogFormat, "json"),
	})
}

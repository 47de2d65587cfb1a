// Package natsslot 基于 NATS JetStream KeyValue 桶的槽位
package natsslot

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"katalog/logging"
	"katalog/persistence/slot"
)

// DefaultBucket 默认 KV 桶名
const DefaultBucket = "KATALOG"

// kvStore 槽位依赖的最小 KV 能力（便于测试替换）
type kvStore interface {
	get(key string) ([]byte, error)
	put(key string, value []byte) error
}

// Config NATS 连接与桶配置
type Config struct {
	URL    string
	Bucket string
	Conn   *nats.Conn
	Logger logging.Logger
}

// Slot NATS KV 槽位
type Slot struct {
	kv       kvStore
	conn     *nats.Conn
	ownsConn bool
	logger   logging.Logger
}

// New 连接 NATS 并绑定 KV 桶，桶不存在时创建
func New(ctx context.Context, cfg Config) (*Slot, error) {
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "slot.nats"))
	}

	conn, owns := cfg.Conn, false
	if conn == nil {
		if cfg.URL == "" {
			cfg.URL = nats.DefaultURL
		}
		c, err := nats.Connect(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("natsslot: connect %s: %w", cfg.URL, err)
		}
		conn, owns = c, true
	}

	kv, err := bindBucket(conn, cfg.Bucket)
	if err != nil {
		if owns {
			conn.Close()
		}
		return nil, err
	}
	cfg.Logger.Info(ctx, "nats kv slot bound", logging.String("bucket", cfg.Bucket))

	return &Slot{kv: jetStreamKV{kv: kv}, conn: conn, ownsConn: owns, logger: cfg.Logger}, nil
}

func bindBucket(conn *nats.Conn, bucket string) (nats.KeyValue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("natsslot: jetstream: %w", err)
	}
	kv, err := js.KeyValue(bucket)
	if err == nil {
		return kv, nil
	}
	if !stdErrors.Is(err, nats.ErrBucketNotFound) {
		return nil, fmt.Errorf("natsslot: bind bucket %s: %w", bucket, err)
	}
	kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
		Bucket:      bucket,
		Description: "katalog product catalog",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("natsslot: create bucket %s: %w", bucket, err)
	}
	return kv, nil
}

func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.kv.get(key)
}

func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.kv.put(key, data)
}

func (s *Slot) Backend() string { return "nats" }

// Close 关闭自行创建的连接
func (s *Slot) Close() error {
	if s.ownsConn && s.conn != nil {
		s.conn.Close()
	}
	return nil
}

// jetStreamKV 将 nats.KeyValue 适配为 kvStore
type jetStreamKV struct {
	kv nats.KeyValue
}

func (j jetStreamKV) get(key string) ([]byte, error) {
	entry, err := j.kv.Get(key)
	if err != nil {
		if stdErrors.Is(err, nats.ErrKeyNotFound) {
			return nil, slot.ErrEmpty
		}
		return nil, fmt.Errorf("natsslot: get %q: %w", key, err)
	}
	return entry.Value(), nil
}

func (j jetStreamKV) put(key string, value []byte) error {
	if _, err := j.kv.Put(key, value); err != nil {
		return fmt.Errorf("natsslot: put %q: %w", key, err)
	}
	return nil
}

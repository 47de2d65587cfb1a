// Package persistence 负责目录与持久化槽位之间的序列化同步
//
// Load 永不失败：槽位缺失、不可读、内容损坏或违反目录不变量时返回种子目录并记录 WARN；
// Save 以完整 JSON 数组覆盖槽位，写入串行化，失败时按配置重试。
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"sync"

	"katalog/domain/product"
	"katalog/errors"
	"katalog/logging"
	"katalog/patterns/retry"
	"katalog/persistence/slot"
)

// DefaultKey 目录在槽位中的键
const DefaultKey = "products"

// Options 网关配置
type Options struct {
	// Key 为空时使用 DefaultKey
	Key    string
	Logger logging.Logger

	// Retry 写入重试策略，零值时使用 retry.DefaultConfig()（重试一次）
	Retry *retry.Config
}

// Gateway 持久化网关
type Gateway struct {
	slot   slot.ISlot
	seed   func() []product.Product
	key    string
	retry  retry.Config
	logger logging.Logger

	writeMu sync.Mutex
}

// NewGateway 创建网关；seed 在需要回退时调用，每次应返回新的切片
func NewGateway(s slot.ISlot, seed func() []product.Product, opts Options) *Gateway {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	cfg := retry.DefaultConfig()
	if opts.Retry != nil {
		cfg = *opts.Retry
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	if seed == nil {
		seed = func() []product.Product { return nil }
	}
	return &Gateway{
		slot:   s,
		seed:   seed,
		key:    key,
		retry:  cfg,
		logger: logging.ComponentLogger(logger, "persistence").WithFields(logging.String("backend", s.Backend())),
	}
}

// Load 读取并解析目录
func (g *Gateway) Load(ctx context.Context) []product.Product {
	data, err := g.slot.Read(ctx, g.key)
	if err != nil {
		if stdErrors.Is(err, slot.ErrEmpty) {
			g.logger.Info(ctx, "catalog slot empty, using seed", logging.String("key", g.key))
		} else {
			_ = errors.WrapStorageError(ctx, g.logger, err, false, g.slot.Backend())
		}
		return g.seed()
	}

	products, err := Decode(data)
	if err != nil {
		g.logger.Warn(ctx, "catalog slot unreadable, using seed",
			logging.String("key", g.key), logging.Error(err))
		return g.seed()
	}
	if products == nil {
		g.logger.Info(ctx, "catalog slot holds null, using seed", logging.String("key", g.key))
		return g.seed()
	}

	g.logger.Debug(ctx, "catalog loaded", logging.Int("count", len(products)))
	return products
}

// Save 序列化并覆盖写入目录
func (g *Gateway) Save(ctx context.Context, products []product.Product) error {
	data, err := Encode(products)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInternal, "encode catalog")
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	cfg := g.retry
	cfg.OnRetry = func(attempt int, err error) {
		g.logger.Warn(ctx, "catalog save failed, retrying",
			logging.Int("attempt", attempt),
			logging.Duration("backoff", cfg.Delay(attempt)),
			logging.Error(err))
	}
	err = retry.Do(ctx, func(ctx context.Context, attempt int) error {
		return g.slot.Write(ctx, g.key, data)
	}, cfg)
	if err != nil {
		return errors.WrapStorageError(ctx, g.logger, err, true, g.slot.Backend())
	}

	g.logger.Debug(ctx, "catalog saved", logging.Int("count", len(products)))
	return nil
}

// Encode 将目录编码为 JSON 数组，空目录编码为 []
func Encode(products []product.Product) ([]byte, error) {
	if products == nil {
		products = []product.Product{}
	}
	return json.Marshal(products)
}

// Decode 解析 JSON 数组；内容为 null 时返回 nil 切片
//
// 空白内容、非数组或违反目录不变量的内容返回 STORAGE_READ_ERROR。
func Decode(data []byte) ([]product.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.NewError(errors.ErrCodeStorageRead, "empty catalog payload")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var products []product.Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeStorageRead, "malformed catalog payload")
	}
	if msg := product.CheckInvariants(products); msg != "" {
		return nil, errors.NewError(errors.ErrCodeStorageRead, "corrupt catalog: "+msg)
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// Package catalog 管理有序的产品目录：新建、替换式更新、删除，并在每次变更后同步写入持久化层
package catalog

import (
	"context"
	"fmt"
	"sync"

	"katalog/codegen/snowflake"
	"katalog/domain/product"
	"katalog/errors"
	"katalog/logging"
)

// IPersister 目录的持久化网关
type IPersister interface {
	// Load 读取目录，不可用时返回种子目录
	Load(ctx context.Context) []product.Product

	// Save 覆盖写入完整目录
	Save(ctx context.Context, products []product.Product) error
}

// IIDGenerator 产品 ID 来源
type IIDGenerator interface {
	NextID() (int64, error)
}

// Options 目录配置
type Options struct {
	Logger logging.Logger

	// IDGenerator 为空时按 WorkerID 创建雪花生成器
	IDGenerator IIDGenerator
	WorkerID    int64

	// OnChange 每次变更成功提交后调用，参数为目录副本（不持有锁）
	OnChange func(products []product.Product)
}

// Store 产品目录
//
// 顺序即展示顺序，新记录插入到最前。所有变更先修改内存，再同步写入持久化层；
// 写入失败时回滚内存并返回错误。
type Store struct {
	mu        sync.RWMutex
	products  []product.Product
	persister IPersister
	ids       IIDGenerator
	logger    logging.Logger
	onChange  func([]product.Product)
}

// Open 从持久化层加载目录并创建 Store
func Open(ctx context.Context, persister IPersister, opts Options) (*Store, error) {
	if persister == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "catalog: persister is nil")
	}
	return newStore(persister.Load(ctx), persister, opts)
}

// NewStore 以给定初始目录创建 Store；persister 为空时只在内存中维护
func NewStore(initial []product.Product, persister IPersister, opts Options) (*Store, error) {
	return newStore(initial, persister, opts)
}

func newStore(initial []product.Product, persister IPersister, opts Options) (*Store, error) {
	if msg := product.CheckInvariants(initial); msg != "" {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "catalog: "+msg)
	}

	ids := opts.IDGenerator
	if ids == nil {
		gen, err := snowflake.NewGenerator(opts.WorkerID)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "catalog: invalid worker id")
		}
		ids = gen
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	return &Store{
		products:  clone(initial),
		persister: persister,
		ids:       ids,
		logger:    logging.ComponentLogger(logger, "catalog"),
		onChange:  opts.OnChange,
	}, nil
}

// Create 分配新 ID 并插入到目录最前，不重复验证
func (s *Store) Create(ctx context.Context, fields product.Fields) (product.Product, error) {
	s.mu.Lock()

	id, err := s.nextIDLocked()
	if err != nil {
		s.mu.Unlock()
		return product.Product{}, err
	}

	created := product.New(id, fields)
	previous := s.products
	next := make([]product.Product, 0, len(previous)+1)
	next = append(next, created)
	next = append(next, previous...)

	if err := s.commitLocked(ctx, previous, next); err != nil {
		s.mu.Unlock()
		return product.Product{}, err
	}
	snapshot := clone(s.products)
	s.mu.Unlock()

	s.logger.Info(ctx, "product created", logging.Int64("id", id), logging.String("name", fields.Name))
	s.notify(snapshot)
	return created, nil
}

// Update 以新字段整体替换指定记录，ID 与位置保持不变
//
// ID 不存在时不做任何修改也不写入，返回 false。
func (s *Store) Update(ctx context.Context, id int64, fields product.Fields) (bool, error) {
	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug(ctx, "update skipped, product not found", logging.Int64("id", id))
		return false, nil
	}

	previous := s.products
	next := clone(previous)
	next[idx] = product.New(id, fields)

	if err := s.commitLocked(ctx, previous, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	snapshot := clone(s.products)
	s.mu.Unlock()

	s.logger.Info(ctx, "product updated", logging.Int64("id", id))
	s.notify(snapshot)
	return true, nil
}

// Delete 删除指定记录，ID 不存在时返回 false
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug(ctx, "delete skipped, product not found", logging.Int64("id", id))
		return false, nil
	}

	previous := s.products
	next := make([]product.Product, 0, len(previous)-1)
	next = append(next, previous[:idx]...)
	next = append(next, previous[idx+1:]...)

	if err := s.commitLocked(ctx, previous, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	snapshot := clone(s.products)
	s.mu.Unlock()

	s.logger.Info(ctx, "product deleted", logging.Int64("id", id))
	s.notify(snapshot)
	return true, nil
}

// All 返回当前目录的副本
func (s *Store) All() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.products)
}

// Snapshot 等同于 All，供验证时作为目录快照使用
func (s *Store) Snapshot() []product.Product {
	return s.All()
}

// Get 按 ID 读取记录
func (s *Store) Get(id int64) (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.products[idx], true
	}
	return product.Product{}, false
}

// Count 记录数
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Exists ID 是否存在
func (s *Store) Exists(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

// commitLocked 切换到新目录并写入持久化层，失败时恢复 previous
func (s *Store) commitLocked(ctx context.Context, previous, next []product.Product) error {
	s.products = next
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, clone(next)); err != nil {
		s.products = previous
		s.logger.Error(ctx, "catalog save failed, change rolled back", logging.Error(err))
		return err
	}
	return nil
}

// nextIDLocked 取下一个未被占用的正 ID
func (s *Store) nextIDLocked() (int64, error) {
	const maxTries = 8
	for i := 0; i < maxTries; i++ {
		id, err := s.ids.NextID()
		if err != nil {
			return 0, errors.WrapError(err, errors.ErrCodeInternal, "catalog: id generation failed")
		}
		if id > 0 && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return 0, errors.NewError(errors.ErrCodeInternal,
		fmt.Sprintf("catalog: no free id after %d attempts", maxTries))
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(snapshot []product.Product) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func clone(in []product.Product) []product.Product {
	out := make([]product.Product, len(in))
	copy(out, in)
	return out
}

// Package app 组装目录引擎：一个目录、一个表单会话、一个通知中心，对外暴露渲染层意图与状态快照
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"katalog/domain/catalog"
	"katalog/domain/product"
	"katalog/errors"
	"katalog/form"
	"katalog/logging"
	"katalog/notify"
)

// State 渲染层消费的引擎快照
type State struct {
	Variant   product.Variant
	Fields    []product.Field
	Mode      form.Mode
	EditingID *int64
	Draft     product.Draft
	Errors    map[string]string
	Products  []product.Product

	Notification        notify.Notification
	NotificationVisible bool

	PendingDelete    *form.DeleteRequest
	DescriptionCount string
}

// Options 引擎配置
type Options struct {
	Logger      logging.Logger
	WorkerID    int64
	NotifyTTL   time.Duration
	Scheduler   notify.IScheduler
	Now         func() time.Time
	IDGenerator catalog.IIDGenerator

	// OnChange 每次状态变化后调用（意图处理完成或通知过期）
	OnChange func(State)
}

// Option 引擎选项
type Option func(*Options)

func WithLogger(l logging.Logger) Option            { return func(o *Options) { o.Logger = l } }
func WithWorkerID(id int64) Option                  { return func(o *Options) { o.WorkerID = id } }
func WithNotifyTTL(d time.Duration) Option          { return func(o *Options) { o.NotifyTTL = d } }
func WithScheduler(s notify.IScheduler) Option      { return func(o *Options) { o.Scheduler = s } }
func WithClock(now func() time.Time) Option         { return func(o *Options) { o.Now = now } }
func WithIDGenerator(g catalog.IIDGenerator) Option { return func(o *Options) { o.IDGenerator = g } }
func WithOnChange(f func(State)) Option             { return func(o *Options) { o.OnChange = f } }

// Engine 目录引擎
//
// 每个进程构建一次并传给渲染层。意图处理期间产生的内部变更不会立即回调，
// 而是在意图结束后统一发出一次 OnChange。
type Engine struct {
	policy  product.Policy
	store   *catalog.Store
	session *form.Session
	center  *notify.Center
	logger  logging.Logger

	onChange func(State)

	dispatchMu sync.Mutex
	busy       int
}

// NewEngine 从持久化网关加载目录并组装引擎
func NewEngine(ctx context.Context, persister catalog.IPersister, policy product.Policy, opts ...Option) (*Engine, error) {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.GetLogger()
	}

	e := &Engine{
		policy:   policy,
		logger:   logging.ComponentLogger(o.Logger, "engine"),
		onChange: o.OnChange,
	}

	store, err := catalog.Open(ctx, persister, catalog.Options{
		Logger:      o.Logger,
		IDGenerator: o.IDGenerator,
		WorkerID:    o.WorkerID,
		OnChange:    func([]product.Product) { e.changed() },
	})
	if err != nil {
		return nil, err
	}
	e.store = store

	e.center = notify.NewCenter(notify.Config{
		TTL:       o.NotifyTTL,
		Scheduler: o.Scheduler,
		Now:       o.Now,
		Logger:    o.Logger,
		OnChange:  func(*notify.Notification) { e.changed() },
	})
	e.session = form.NewSession(policy, store, e.center, form.Options{Logger: o.Logger, Now: o.Now})

	e.logger.Info(ctx, "engine ready",
		logging.String("variant", string(policy.Variant)),
		logging.Int("products", store.Count()))
	return e, nil
}

// OnFieldChange 更新草稿字段
func (e *Engine) OnFieldChange(field, value string) error {
	defer e.dispatch()()

	f, ok := product.ParseField(field)
	if !ok {
		return errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown field %q", field))
	}
	return e.session.FieldChange(f, value)
}

// OnSubmit 提交表单
func (e *Engine) OnSubmit(ctx context.Context) error {
	defer e.dispatch()()
	return e.session.Submit(ctx)
}

// OnEditRequest 进入编辑模式，ID 不存在时返回 false
func (e *Engine) OnEditRequest(id int64) bool {
	defer e.dispatch()()

	p, ok := e.store.Get(id)
	if !ok {
		e.logger.Debug(context.Background(), "edit request for unknown product", logging.Int64("id", id))
		return false
	}
	e.session.StartEdit(p)
	return true
}

// OnDeleteRequest 登记删除请求，返回需要渲染层确认的提示
func (e *Engine) OnDeleteRequest(id int64) (form.DeleteRequest, bool) {
	defer e.dispatch()()
	return e.session.DeleteRequested(id)
}

// OnConfirmDelete 回应删除确认
func (e *Engine) OnConfirmDelete(ctx context.Context, id int64, confirmed bool) (bool, error) {
	defer e.dispatch()()
	return e.session.ConfirmDelete(ctx, id, confirmed)
}

// OnCancel 取消编辑
func (e *Engine) OnCancel() {
	defer e.dispatch()()
	e.session.Cancel()
}

// OnDismissNotification 关闭当前通知
func (e *Engine) OnDismissNotification() {
	defer e.dispatch()()
	e.center.Dismiss()
}

// State 返回当前快照
func (e *Engine) State() State {
	ss := e.session.State()
	st := State{
		Variant:          e.policy.Variant,
		Fields:           e.policy.ActiveFields(),
		Mode:             ss.Mode,
		EditingID:        ss.EditingID,
		Draft:            ss.Draft,
		Errors:           ss.Errors,
		Products:         e.store.All(),
		PendingDelete:    ss.Pending,
		DescriptionCount: e.policy.DescriptionCounter(ss.Draft),
	}
	st.Notification, st.NotificationVisible = e.center.Current()
	return st
}

// Products 当前目录
func (e *Engine) Products() []product.Product {
	return e.store.All()
}

// Policy 引擎使用的变体策略
func (e *Engine) Policy() product.Policy {
	return e.policy
}

// dispatch 标记意图开始，返回的函数在意图结束时发出 OnChange
func (e *Engine) dispatch() func() {
	e.dispatchMu.Lock()
	e.busy++
	e.dispatchMu.Unlock()

	return func() {
		e.dispatchMu.Lock()
		e.busy--
		e.dispatchMu.Unlock()
		e.emit()
	}
}

// changed 处理内部组件的变更通知；意图处理中只等待意图结束后的统一回调
func (e *Engine) changed() {
	e.dispatchMu.Lock()
	busy := e.busy > 0
	e.dispatchMu.Unlock()
	if !busy {
		e.emit()
	}
}

func (e *Engine) emit() {
	if e.onChange != nil {
		e.onChange(e.State())
	}
}

// Package form 实现产品表单会话：新建/编辑状态机、草稿、字段错误与两阶段删除确认
package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"katalog/domain/product"
	"katalog/errors"
	"katalog/logging"
	"katalog/notify"
	"katalog/validation"
)

// Mode 会话模式
type Mode int

const (
	ModeCreating Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "edit"
	}
	return "create"
}

// ICatalog 会话依赖的目录能力
type ICatalog interface {
	Snapshot() []product.Product
	Get(id int64) (product.Product, bool)
	Create(ctx context.Context, fields product.Fields) (product.Product, error)
	Update(ctx context.Context, id int64, fields product.Fields) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// INotifier 会话依赖的通知能力
type INotifier interface {
	Notify(message string, severity notify.Severity) notify.Notification
}

// DeleteRequest 等待确认的删除请求
type DeleteRequest struct {
	ID     int64
	Name   string
	Prompt string
}

// State 会话状态快照
type State struct {
	Mode      Mode
	EditingID *int64
	Draft     product.Draft
	Errors    validation.Errors
	Pending   *DeleteRequest
}

// Options 会话配置
type Options struct {
	Logger logging.Logger

	// Now 决定验证时的“今天”，默认 time.Now
	Now func() time.Time
}

// Session 表单会话
//
// 验证与提交在同一把锁内完成，名称唯一性检查与写入之间不会插入其他变更。
type Session struct {
	mu       sync.Mutex
	policy   product.Policy
	catalog  ICatalog
	notifier INotifier
	now      func() time.Time
	logger   logging.Logger

	draft     product.Draft
	editingID *int64
	errs      validation.Errors
	pending   *DeleteRequest
}

// NewSession 创建处于新建模式的会话
func NewSession(policy product.Policy, catalog ICatalog, notifier INotifier, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetLogger()
	}
	return &Session{
		policy:   policy,
		catalog:  catalog,
		notifier: notifier,
		now:      opts.Now,
		logger:   logging.ComponentLogger(opts.Logger, "form"),
		draft:    policy.EmptyDraft(),
		errs:     validation.NewErrors(),
	}
}

// StartEdit 进入编辑模式，草稿取自 p，清空错误
func (s *Session) StartEdit(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := p.ID
	s.editingID = &id
	s.draft = product.DraftFrom(p)
	s.errs = validation.NewErrors()
}

// Cancel 回到新建模式并重置草稿与错误
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// FieldChange 更新草稿字段，只清除该字段的错误
func (s *Session) FieldChange(field product.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.draft.Set(field, value) {
		return errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown field %q", field))
	}
	delete(s.errs, string(field))
	return nil
}

// Submit 验证草稿并提交
//
// 验证失败：记录字段错误，danger 通知，返回 VALIDATION_ERROR，状态不变。
// 写入失败：danger 通知，保留草稿与模式，返回存储错误。
// 成功：新建或替换记录，success 通知，回到新建模式。
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.policy.Messages
	errs := s.policy.Validate(s.draft, s.catalog.Snapshot(), s.editingID, s.now())
	if !errs.Empty() {
		s.errs = errs
		s.notifier.Notify(msgs.SubmitInvalid, notify.SeverityDanger)
		s.logger.Debug(ctx, "submit rejected", logging.Int("invalid_fields", len(errs)))
		return errs.Err()
	}

	fields := s.policy.Normalize(s.draft)

	if s.editingID == nil {
		if _, err := s.catalog.Create(ctx, fields); err != nil {
			s.notifier.Notify(msgs.SaveFailed, notify.SeverityDanger)
			return err
		}
		s.notifier.Notify(msgs.Created, notify.SeveritySuccess)
		s.resetLocked()
		return nil
	}

	id := *s.editingID
	updated, err := s.catalog.Update(ctx, id, fields)
	if err != nil {
		s.notifier.Notify(msgs.SaveFailed, notify.SeverityDanger)
		return err
	}
	s.resetLocked()
	if !updated {
		s.logger.Debug(ctx, "edited product no longer exists", logging.Int64("id", id))
		return errors.NewError(errors.ErrCodeNotFound, fmt.Sprintf("product %d not found", id))
	}
	s.notifier.Notify(msgs.Updated, notify.SeveritySuccess)
	return nil
}

// DeleteRequested 为存在的记录登记待确认的删除请求
func (s *Session) DeleteRequested(id int64) (DeleteRequest, bool) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return DeleteRequest{}, false
	}

	req := DeleteRequest{ID: id, Name: p.Name, Prompt: s.policy.ConfirmDeletePrompt(p.Name)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &req
	return req, true
}

// ConfirmDelete 回应删除请求
//
// 只有与待确认请求 ID 一致且 confirmed 为 true 时才删除；其余情况清除请求，目录不变。
// 删除的是正在编辑的记录时会话回到新建模式。
func (s *Session) ConfirmDelete(ctx context.Context, id int64, confirmed bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending
	s.pending = nil
	if pending == nil || pending.ID != id || !confirmed {
		return false, nil
	}

	deleted, err := s.catalog.Delete(ctx, id)
	if err != nil {
		s.notifier.Notify(s.policy.Messages.SaveFailed, notify.SeverityDanger)
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if s.editingID != nil && *s.editingID == id {
		s.resetLocked()
	}
	s.notifier.Notify(s.policy.Messages.Deleted, notify.SeveritySuccess)
	return true, nil
}

// State 返回会话快照
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Mode:   ModeCreating,
		Draft:  s.draft,
		Errors: s.errs.Clone(),
	}
	if s.editingID != nil {
		id := *s.editingID
		st.Mode = ModeEditing
		st.EditingID = &id
	}
	if s.pending != nil {
		req := *s.pending
		st.Pending = &req
	}
	return st
}

// Policy 返回会话使用的变体策略
func (s *Session) Policy() product.Policy {
	return s.policy
}

func (s *Session) resetLocked() {
	s.editingID = nil
	s.draft = s.policy.EmptyDraft()
	s.errs = validation.NewErrors()
}

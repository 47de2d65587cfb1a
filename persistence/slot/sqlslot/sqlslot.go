// Package sqlslot 基于 SQL 表的槽位，默认使用 modernc.org/sqlite
//
// 表结构：slot_key 主键 + payload 文本，写入使用方言对应的 upsert。
package sqlslot

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"

	_ "modernc.org/sqlite"

	core "katalog/data/db"
	basicdb "katalog/data/db/basic"
	"katalog/data/db/dialect"
	"katalog/persistence/slot"
)

// DefaultTable 默认表名
const DefaultTable = "katalog_slots"

// Slot SQL 槽位
type Slot struct {
	db      core.IDatabase
	owned   bool
	selectQ string
	upsertQ string
	backend string
}

// Open 打开 SQLite 数据库文件（":memory:" 为内存库）并确保表存在
func Open(ctx context.Context, path string) (*Slot, error) {
	db, err := basicdb.New(core.DBConfig{
		Driver:       "sqlite",
		Database:     path,
		MaxOpenConns: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlslot: open %q: %w", path, err)
	}
	s, err := New(ctx, db, DefaultTable)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New 在已有数据库上创建槽位并确保表存在
func New(ctx context.Context, db core.IDatabase, table string) (*Slot, error) {
	d := dialect.FromDatabase(db)
	upsert, err := d.Upsert(table, "slot_key", "payload")
	if err != nil {
		return nil, fmt.Errorf("sqlslot: %w", err)
	}

	t := d.QuoteIdentifier(table)
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s VARCHAR(191) PRIMARY KEY, %s TEXT NOT NULL)",
		t, d.QuoteIdentifier("slot_key"), d.QuoteIdentifier("payload"))
	if _, err := db.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("sqlslot: create table %s: %w", table, err)
	}

	return &Slot{
		db:      db,
		selectQ: fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", d.QuoteIdentifier("payload"), t, d.QuoteIdentifier("slot_key")),
		upsertQ: upsert,
		backend: "sql:" + string(d.Name()),
	}, nil
}

func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	var payload string
	if err := s.db.QueryRow(ctx, s.selectQ, key).Scan(&payload); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, slot.ErrEmpty
		}
		return nil, fmt.Errorf("sqlslot: read %q: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.Exec(ctx, s.upsertQ, key, string(data)); err != nil {
		return fmt.Errorf("sqlslot: write %q: %w", key, err)
	}
	return nil
}

func (s *Slot) Backend() string { return s.backend }

// Close 关闭由 Open 创建的数据库连接
func (s *Slot) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

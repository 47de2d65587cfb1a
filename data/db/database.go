// Package db 提供最小的 SQL 数据库抽象
//
// 只覆盖目录持久化实际用到的操作：单行查询、执行语句、连通性检查。
// 具体实现见 data/db/basic，方言差异见 data/db/dialect。
package db

import (
	"context"
	"database/sql"
)

// IDatabase 通用数据库接口
type IDatabase interface {
	QueryRow(ctx context.Context, query string, args ...any) IRow
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	Ping(ctx context.Context) error
	Close() error
}

// IDialectNameProvider 可选接口：提供底层数据库方言名称
//
// 返回诸如 "mysql"、"sqlite"、"postgres" 等 driver 名，供 dialect 包推断方言能力。
type IDialectNameProvider interface {
	GetDialectName() string
}

// IRow 单行结果接口，无结果时 Scan 返回 sql.ErrNoRows
type IRow interface {
	Scan(dest ...any) error
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver   string // sqlite, mysql, postgres
	Database string // DSN 或文件路径

	// 连接池配置
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // 秒
}

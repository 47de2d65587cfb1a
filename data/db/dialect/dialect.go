// Package dialect 抽象 SQL 方言差异：标识符引用、占位符与 upsert 语法
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	core "katalog/data/db"
)

// Name 标准化的数据库方言名称
type Name string

const (
	NameMySQL    Name = "mysql"
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameUnknown  Name = ""
)

// Dialect 表示当前数据库的方言能力
type Dialect struct {
	name Name
}

// New 根据字符串构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return Dialect{name: NameMySQL}
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql", "pgx":
		return Dialect{name: NamePostgres}
	default:
		return Dialect{name: NameUnknown}
	}
}

// FromDatabase 从 IDatabase 实例推断方言，未实现 IDialectNameProvider 时返回 Unknown
func FromDatabase(db core.IDatabase) Dialect {
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 返回标准化方言名
func (d Dialect) Name() Name {
	return d.name
}

// QuoteIdentifier 根据方言对标识符加引号，支持 schema.table 形式
//
// MySQL 使用反引号，Postgres/SQLite 使用双引号，Unknown 保持原样。
func (d Dialect) QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		switch d.name {
		case NameMySQL:
			parts[i] = "`" + p + "`"
		case NameSQLite, NamePostgres:
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Rebind 将通用占位符 ? 转换为方言特定形式
//
// 仅 Postgres 替换为 $1、$2...；简单字符扫描，不识别字符串字面量中的 ?。
func (d Dialect) Rebind(query string) string {
	if query == "" || d.name != NamePostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 4)
	argIndex := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(argIndex))
			argIndex++
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// Upsert 生成 “按主键插入或覆盖” 语句，参数顺序为 (key, value)
func (d Dialect) Upsert(table, keyColumn, valueColumn string) (string, error) {
	for _, ident := range []string{table, keyColumn, valueColumn} {
		if !IsSafeIdentifier(ident) {
			return "", fmt.Errorf("dialect: unsafe identifier %q", ident)
		}
	}
	t, k, v := d.QuoteIdentifier(table), d.QuoteIdentifier(keyColumn), d.QuoteIdentifier(valueColumn)

	switch d.name {
	case NameMySQL:
		return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON DUPLICATE KEY UPDATE %s = VALUES(%s)",
			t, k, v, v, v), nil
	case NameSQLite, NamePostgres:
		return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s",
			t, k, v, k, v, v), nil
	default:
		return "", fmt.Errorf("dialect: upsert not supported for %q", d.name)
	}
}

// IsSafeIdentifier 判断简单标识符是否合法
//
// 允许 foo、bar_1 以及 table.column；每段首字符为字母或下划线，其余为字母、数字或下划线。
func IsSafeIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			ch := part[i]
			letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
			if i == 0 && !letter {
				return false
			}
			if i > 0 && !letter && !(ch >= '0' && ch <= '9') {
				return false
			}
		}
	}
	return true
}

// Package product 定义产品实体、表单草稿、变体策略与字段验证规则
package product

import (
	"strconv"
	"strings"
)

// DateLayout 发布日期的存储与输入格式
const DateLayout = "2006-01-02"

// Field 表单字段名，同时作为错误映射的键与 JSON 键
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldCategory    Field = "category"
	FieldReleaseDate Field = "releaseDate"
	FieldStock       Field = "stock"
	FieldIsActive    Field = "isActive"
)

// ParseField 解析字段名
func ParseField(s string) (Field, bool) {
	switch f := Field(strings.TrimSpace(s)); f {
	case FieldName, FieldDescription, FieldPrice, FieldCategory,
		FieldReleaseDate, FieldStock, FieldIsActive:
		return f, true
	}
	return "", false
}

// Fields 产品的可编辑属性（不含 ID），即提交时写入目录的规范化值
type Fields struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// 以下为扩展变体字段，简单变体下保持零值
	Price       float64 `json:"price,omitempty"`
	Category    string  `json:"category,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	Stock       int     `json:"stock,omitempty"`
	IsActive    bool    `json:"isActive,omitempty"`
}

// Product 目录中的产品记录
type Product struct {
	ID int64 `json:"id"`
	Fields
}

// GetID 返回产品 ID
func (p Product) GetID() int64 {
	return p.ID
}

// New 以给定 ID 与字段构造产品
func New(id int64, f Fields) Product {
	return Product{ID: id, Fields: f}
}

// Draft 表单中尚未提交的原始输入
//
// 数值与日期字段保存用户输入的原始字符串，解析在验证与规范化时进行。
type Draft struct {
	Name        string
	Description string
	Price       string
	Category    string
	ReleaseDate string
	Stock       string
	IsActive    bool
}

// DraftFrom 用已有产品填充草稿（进入编辑模式时使用）
func DraftFrom(p Product) Draft {
	d := Draft{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		ReleaseDate: p.ReleaseDate,
		Stock:       strconv.Itoa(p.Stock),
		IsActive:    p.IsActive,
	}
	if p.Price != 0 {
		d.Price = strconv.FormatFloat(p.Price, 'f', -1, 64)
	}
	return d
}

// Get 读取字段的原始值
func (d Draft) Get(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldDescription:
		return d.Description
	case FieldPrice:
		return d.Price
	case FieldCategory:
		return d.Category
	case FieldReleaseDate:
		return d.ReleaseDate
	case FieldStock:
		return d.Stock
	case FieldIsActive:
		return strconv.FormatBool(d.IsActive)
	default:
		return ""
	}
}

// Set 写入字段的原始值，返回 false 表示字段未知
//
// isActive 接受 strconv.ParseBool 能解析的值，其余值视为 false。
func (d *Draft) Set(field Field, value string) bool {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldPrice:
		d.Price = value
	case FieldCategory:
		d.Category = value
	case FieldReleaseDate:
		d.ReleaseDate = value
	case FieldStock:
		d.Stock = value
	case FieldIsActive:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		d.IsActive = err == nil && b
	default:
		return false
	}
	return true
}

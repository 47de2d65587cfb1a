// Package validation 提供字段级验证规则与错误集合
//
// 规则以函数形式组合，单个字段按顺序执行，第一个失败规则的消息即为该字段的错误；
// 不同字段之间相互独立，全部失败字段都会被收集。
package validation

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"katalog/errors"
)

// Rule 单字段规则，返回空字符串表示通过
type Rule func(value string) string

// Errors 字段名到错误消息的映射，零值不可写，使用 NewErrors 创建
type Errors map[string]string

// NewErrors 创建空错误集合
func NewErrors() Errors {
	return make(Errors)
}

// Check 对字段依次执行规则，记录第一个失败消息；字段已有错误时跳过
func (e Errors) Check(field, value string, rules ...Rule) {
	if _, exists := e[field]; exists {
		return
	}
	if msg := First(value, rules...); msg != "" {
		e[field] = msg
	}
}

// Set 直接记录字段错误（已有错误时保留原消息）
func (e Errors) Set(field, msg string) {
	if msg == "" {
		return
	}
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Has 字段是否有错误
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Empty 集合为空表示全部通过
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Clone 返回副本
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Err 转换为 VALIDATION_ERROR，集合为空时返回 nil
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return errors.NewValidationError(e)
}

// First 执行规则并返回第一个失败消息
func First(value string, rules ...Rule) string {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if msg := rule(value); msg != "" {
			return msg
		}
	}
	return ""
}

// Length 去除首尾空白后的字符数（按 rune 计）
func Length(value string) int {
	return utf8.RuneCountInString(strings.TrimSpace(value))
}

// Required 去除空白后不能为空
func Required(msg string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

// MinLength 去除空白后长度不少于 min
func MinLength(min int, msg string) Rule {
	return func(value string) string {
		if Length(value) < min {
			return msg
		}
		return ""
	}
}

// MaxLength 去除空白后长度不超过 max，max<=0 表示不限制
func MaxLength(max int, msg string) Rule {
	return func(value string) string {
		if max > 0 && Length(value) > max {
			return msg
		}
		return ""
	}
}

// OneOf 去除空白后必须是候选值之一
func OneOf(options []string, msg string) Rule {
	return func(value string) string {
		v := strings.TrimSpace(value)
		for _, opt := range options {
			if v == opt {
				return ""
			}
		}
		return msg
	}
}

// Positive 数值必须是可解析的有限数且大于 0
func Positive(invalidMsg, msg string) Rule {
	return func(value string) string {
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return invalidMsg
		}
		if f <= 0 {
			return msg
		}
		return ""
	}
}

// IntRange 整数必须可解析且位于 [min, max]，max<min 表示不限制上界
func IntRange(min, max int, invalidMsg, msg string) Rule {
	return func(value string) string {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return invalidMsg
		}
		if n < min || (max >= min && n > max) {
			return msg
		}
		return ""
	}
}

// DateNotAfter 日期（layout 格式）必须可解析且不晚于 today 所在日历日
//
// 比较前双方都归一到当天零点，today 每次调用时求值。
func DateNotAfter(layout string, today func() time.Time, invalidMsg, msg string) Rule {
	return func(value string) string {
		now := today()
		d, err := time.ParseInLocation(layout, strings.TrimSpace(value), now.Location())
		if err != nil {
			return invalidMsg
		}
		if Midnight(d).After(Midnight(now)) {
			return msg
		}
		return ""
	}
}

// Midnight 返回 t 所在日历日的零点（保留时区）
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

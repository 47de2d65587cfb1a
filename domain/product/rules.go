package product

import (
	"fmt"
	"strings"
	"time"

	"katalog/validation"
)

// Validate 计算草稿的字段错误，结果为空表示可以提交
//
// 纯函数：catalog 为调用时刻的目录快照，editingID 为 nil 表示新建；
// 名称重复检查排除 editingID 对应的记录。now 决定“今天”。
func (p Policy) Validate(d Draft, catalog []Product, editingID *int64, now time.Time) validation.Errors {
	m := p.Messages
	errs := validation.NewErrors()

	errs.Check(string(FieldName), d.Name,
		validation.Required(m.NameRequired),
		validation.MinLength(p.NameMin, fmt.Sprintf(m.NameTooShort, p.NameMin)),
		validation.MaxLength(p.NameMax, fmt.Sprintf(m.NameTooLong, p.NameMax)),
		uniqueName(catalog, editingID, m.NameDuplicate),
	)

	descRules := []validation.Rule{
		validation.MaxLength(p.DescriptionMax, fmt.Sprintf(m.DescriptionTooLong, p.DescriptionMax)),
	}
	if p.DescriptionMin > 0 {
		descRules = append([]validation.Rule{
			validation.MinLength(p.DescriptionMin, fmt.Sprintf(m.DescriptionTooShort, p.DescriptionMin)),
		}, descRules...)
	}
	errs.Check(string(FieldDescription), d.Description, descRules...)

	if !p.Extended {
		return errs
	}

	errs.Check(string(FieldPrice), d.Price,
		validation.Positive(m.PriceInvalid, m.PriceNotPositive))
	errs.Check(string(FieldCategory), d.Category,
		validation.OneOf(p.Categories, m.CategoryInvalid))
	errs.Check(string(FieldReleaseDate), d.ReleaseDate,
		validation.DateNotAfter(DateLayout, func() time.Time { return now }, m.ReleaseDateInvalid, m.ReleaseDateFuture))
	stockRules := []validation.Rule{validation.IntRange(0, -1, m.StockInvalid, m.StockNegative)}
	if p.StockMax > 0 {
		stockRules = append(stockRules,
			validation.IntRange(0, p.StockMax, m.StockInvalid, fmt.Sprintf(m.StockTooLarge, p.StockMax)))
	}
	errs.Check(string(FieldStock), d.Stock, stockRules...)

	return errs
}

// uniqueName 名称（去空白、忽略大小写）不得与其他记录重复
func uniqueName(catalog []Product, editingID *int64, msg string) validation.Rule {
	return func(value string) string {
		name := strings.TrimSpace(value)
		for _, existing := range catalog {
			if editingID != nil && existing.ID == *editingID {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(existing.Name), name) {
				return msg
			}
		}
		return ""
	}
}

// CheckInvariants 检查目录级不变量：ID 为正且互不相同，名称忽略大小写互不相同
//
// 返回第一个违反的描述，全部满足时返回空字符串。
func CheckInvariants(catalog []Product) string {
	ids := make(map[int64]struct{}, len(catalog))
	names := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		if p.ID <= 0 {
			return fmt.Sprintf("non-positive id %d", p.ID)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Sprintf("duplicate id %d", p.ID)
		}
		ids[p.ID] = struct{}{}

		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, dup := names[key]; dup {
			return fmt.Sprintf("duplicate name %q", p.Name)
		}
		names[key] = struct{}{}
	}
	return ""
}

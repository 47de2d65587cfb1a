package product

import (
	"fmt"
	"strconv"
	"strings"

	"katalog/errors"
)

// Variant 策略变体
type Variant string

const (
	VariantSimple   Variant = "simple"
	VariantExtended Variant = "extended"
)

// Messages 面向用户的提示文案
type Messages struct {
	NameRequired        string
	NameTooShort        string // %d = 最小长度
	NameTooLong         string // %d = 最大长度
	NameDuplicate       string
	DescriptionTooShort string // %d = 最小长度
	DescriptionTooLong  string // %d = 最大长度
	PriceInvalid        string
	PriceNotPositive    string
	CategoryInvalid     string
	ReleaseDateInvalid  string
	ReleaseDateFuture   string
	StockInvalid        string
	StockNegative       string
	StockTooLarge       string // %d = 最大库存

	SubmitInvalid string
	Created       string
	Updated       string
	Deleted       string
	SaveFailed    string
	ConfirmDelete string // %s = 产品名称
}

// IndonesianMessages 默认文案
func IndonesianMessages() Messages {
	return Messages{
		NameRequired:        "Nama Produk wajib diisi.",
		NameTooShort:        "Minimal %d karakter.",
		NameTooLong:         "Maksimal %d karakter.",
		NameDuplicate:       "Nama Produk sudah ada.",
		DescriptionTooShort: "Deskripsi minimal %d karakter.",
		DescriptionTooLong:  "Deskripsi maksimal %d karakter.",
		PriceInvalid:        "Harga wajib diisi dengan angka.",
		PriceNotPositive:    "Harga harus lebih dari 0.",
		CategoryInvalid:     "Kategori tidak valid.",
		ReleaseDateInvalid:  "Tanggal rilis wajib diisi (format YYYY-MM-DD).",
		ReleaseDateFuture:   "Tanggal rilis tidak boleh di masa depan.",
		StockInvalid:        "Stok wajib diisi dengan bilangan bulat.",
		StockNegative:       "Stok tidak boleh negatif.",
		StockTooLarge:       "Stok maksimal %d.",

		SubmitInvalid: "Periksa kembali input Anda.",
		Created:       "Produk berhasil ditambahkan.",
		Updated:       "Produk berhasil diperbarui.",
		Deleted:       "Produk berhasil dihapus.",
		SaveFailed:    "Gagal menyimpan data produk.",
		ConfirmDelete: "Apakah Anda yakin ingin menghapus produk \"%s\"?",
	}
}

// DefaultStockMax 扩展变体的库存上限
const DefaultStockMax = 9999

// Policy 变体相关的字段集合、边界与文案
type Policy struct {
	Variant Variant

	NameMin int
	NameMax int

	// DescriptionMin > 0 表示描述必填；DescriptionMax <= 0 表示不限长度
	DescriptionMin int
	DescriptionMax int

	// Extended 为 true 时启用价格/分类/发布日期/库存/上架字段
	Extended   bool
	Categories []string

	// StockMax 库存上限，<= 0 表示不限
	StockMax int

	Messages Messages
}

// SimplePolicy 简单变体：名称 3-50，描述可选且不超过 200
func SimplePolicy() Policy {
	return Policy{
		Variant:        VariantSimple,
		NameMin:        3,
		NameMax:        50,
		DescriptionMax: 200,
		Messages:       IndonesianMessages(),
	}
}

// ExtendedPolicy 扩展变体：名称 3-100，描述必填且不少于 20，启用扩展字段
func ExtendedPolicy() Policy {
	return Policy{
		Variant:        VariantExtended,
		NameMin:        3,
		NameMax:        100,
		DescriptionMin: 20,
		Extended:       true,
		Categories:     []string{"Makanan", "Minuman", "Sembako", "Elektronik", "Pakaian", "Lainnya"},
		StockMax:       DefaultStockMax,
		Messages:       IndonesianMessages(),
	}
}

// PolicyFor 根据变体名返回策略
func PolicyFor(v Variant) (Policy, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(string(v)))) {
	case VariantSimple, "":
		return SimplePolicy(), nil
	case VariantExtended:
		return ExtendedPolicy(), nil
	default:
		return Policy{}, errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown variant %q", v))
	}
}

// ActiveFields 当前变体下表单展示的字段
func (p Policy) ActiveFields() []Field {
	fields := []Field{FieldName, FieldDescription}
	if p.Extended {
		fields = append(fields, FieldPrice, FieldCategory, FieldReleaseDate, FieldStock, FieldIsActive)
	}
	return fields
}

// EmptyDraft 重置后的默认草稿
func (p Policy) EmptyDraft() Draft {
	if !p.Extended {
		return Draft{}
	}
	return Draft{Stock: "0", IsActive: true}
}

// Normalize 将已通过验证的草稿转换为提交值：文本去空白，数值解析，非当前变体字段清零
func (p Policy) Normalize(d Draft) Fields {
	f := Fields{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
	}
	if !p.Extended {
		return f
	}
	f.Price, _ = strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	f.Category = strings.TrimSpace(d.Category)
	f.ReleaseDate = strings.TrimSpace(d.ReleaseDate)
	f.Stock, _ = strconv.Atoi(strings.TrimSpace(d.Stock))
	f.IsActive = d.IsActive
	return f
}

// DescriptionCounter 描述字数提示，例如 "12/200"；不限长度时只返回字数
func (p Policy) DescriptionCounter(d Draft) string {
	n := len([]rune(d.Description))
	if p.DescriptionMax > 0 {
		return fmt.Sprintf("%d/%d", n, p.DescriptionMax)
	}
	return strconv.Itoa(n)
}

// ConfirmDeletePrompt 删除确认提示
func (p Policy) ConfirmDeletePrompt(name string) string {
	return fmt.Sprintf(p.Messages.ConfirmDelete, name)
}

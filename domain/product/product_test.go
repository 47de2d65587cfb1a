package product

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)

func validExtendedDraft() Draft {
	return Draft{
		Name:        "Kopi Bubuk",
		Description: "Kopi robusta giling halus 250 gram",
		Price:       "32000",
		Category:    "Minuman",
		ReleaseDate: "2025-06-15",
		Stock:       "10",
		IsActive:    true,
	}
}

func TestValidate_TrimmedNameWithoutDescription(t *testing.T) {
	p := SimplePolicy()
	catalog := p.Seed()

	errs := p.Validate(Draft{Name: "  Teh  ", Description: ""}, catalog, nil, today)
	assert.True(t, errs.Empty())

	fields := p.Normalize(Draft{Name: "  Teh  "})
	assert.Equal(t, "Teh", fields.Name)
	assert.Equal(t, "", fields.Description)
}

func TestValidate_DuplicateOfSeedName(t *testing.T) {
	p := SimplePolicy()
	catalog := p.Seed()

	errs := p.Validate(Draft{Name: "makanan"}, catalog, nil, today)
	assert.Equal(t, "Nama Produk sudah ada.", errs[string(FieldName)])
	assert.Len(t, errs, 1)
}

func TestValidate_NameRules(t *testing.T) {
	p := SimplePolicy()
	catalog := p.Seed()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "Nama Produk wajib diisi."},
		{"blank", "   ", "Nama Produk wajib diisi."},
		{"too short", "ab", "Minimal 3 karakter."},
		{"short after trim", "  ab  ", "Minimal 3 karakter."},
		{"exact min", "abc", ""},
		{"exact max", strings.Repeat("x", 50), ""},
		{"too long", strings.Repeat("x", 51), "Maksimal 50 karakter."},
		{"multibyte counted as runes", strings.Repeat("é", 50), ""},
		{"duplicate case-insensitive", "MINUMAN", "Nama Produk sudah ada."},
		{"duplicate with spaces", " minuman ", "Nama Produk sudah ada."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := p.Validate(Draft{Name: tt.in}, catalog, nil, today)
			assert.Equal(t, tt.want, errs[string(FieldName)])
		})
	}
}

func TestValidate_EditingExcludesSelf(t *testing.T) {
	p := SimplePolicy()
	catalog := p.Seed()
	self := int64(2)
	other := int64(1)

	errs := p.Validate(Draft{Name: "minuman"}, catalog, &self, today)
	assert.True(t, errs.Empty(), "renaming a record to its own name in another case is allowed")

	errs = p.Validate(Draft{Name: "Minuman"}, catalog, &other, today)
	assert.Equal(t, "Nama Produk sudah ada.", errs[string(FieldName)])
}

func TestValidate_SimpleDescription(t *testing.T) {
	p := SimplePolicy()

	errs := p.Validate(Draft{Name: "Roti", Description: strings.Repeat("d", 200)}, nil, nil, today)
	assert.True(t, errs.Empty())

	errs = p.Validate(Draft{Name: "Roti", Description: strings.Repeat("d", 201)}, nil, nil, today)
	assert.Equal(t, "Deskripsi maksimal 200 karakter.", errs[string(FieldDescription)])

	errs = p.Validate(Draft{Name: "Roti", Description: "  " + strings.Repeat("d", 200) + "  "}, nil, nil, today)
	assert.True(t, errs.Empty(), "trimmed length is measured")
}

func TestValidate_SimpleIgnoresExtendedFields(t *testing.T) {
	p := SimplePolicy()
	errs := p.Validate(Draft{Name: "Roti", Price: "abc", Stock: "-1"}, nil, nil, today)
	assert.True(t, errs.Empty())
}

func TestValidate_ExtendedValidDraft(t *testing.T) {
	p := ExtendedPolicy()
	errs := p.Validate(validExtendedDraft(), p.Seed(), nil, today)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestValidate_ReleaseDateTomorrow(t *testing.T) {
	p := ExtendedPolicy()
	d := validExtendedDraft()
	d.ReleaseDate = "2025-06-16"

	errs := p.Validate(d, p.Seed(), nil, today)
	assert.Equal(t, "Tanggal rilis tidak boleh di masa depan.", errs[string(FieldReleaseDate)])
	assert.Len(t, errs, 1)
}

func TestValidate_ExtendedFields(t *testing.T) {
	p := ExtendedPolicy()

	tests := []struct {
		name  string
		mut   func(*Draft)
		field Field
		want  string
	}{
		{"price missing", func(d *Draft) { d.Price = "" }, FieldPrice, "Harga wajib diisi dengan angka."},
		{"price unparsable", func(d *Draft) { d.Price = "murah" }, FieldPrice, "Harga wajib diisi dengan angka."},
		{"price zero", func(d *Draft) { d.Price = "0" }, FieldPrice, "Harga harus lebih dari 0."},
		{"price negative", func(d *Draft) { d.Price = "-5" }, FieldPrice, "Harga harus lebih dari 0."},
		{"price NaN", func(d *Draft) { d.Price = "NaN" }, FieldPrice, "Harga wajib diisi dengan angka."},
		{"price infinite", func(d *Draft) { d.Price = "Inf" }, FieldPrice, "Harga wajib diisi dengan angka."},
		{"price negative infinite", func(d *Draft) { d.Price = "-Inf" }, FieldPrice, "Harga wajib diisi dengan angka."},
		{"price fractional", func(d *Draft) { d.Price = "0.5" }, FieldPrice, ""},
		{"category unknown", func(d *Draft) { d.Category = "Mainan" }, FieldCategory, "Kategori tidak valid."},
		{"category empty", func(d *Draft) { d.Category = "" }, FieldCategory, "Kategori tidak valid."},
		{"date missing", func(d *Draft) { d.ReleaseDate = "" }, FieldReleaseDate, "Tanggal rilis wajib diisi (format YYYY-MM-DD)."},
		{"date malformed", func(d *Draft) { d.ReleaseDate = "15/06/2025" }, FieldReleaseDate, "Tanggal rilis wajib diisi (format YYYY-MM-DD)."},
		{"date past", func(d *Draft) { d.ReleaseDate = "2020-01-01" }, FieldReleaseDate, ""},
		{"stock missing", func(d *Draft) { d.Stock = "" }, FieldStock, "Stok wajib diisi dengan bilangan bulat."},
		{"stock fractional", func(d *Draft) { d.Stock = "1.5" }, FieldStock, "Stok wajib diisi dengan bilangan bulat."},
		{"stock negative", func(d *Draft) { d.Stock = "-1" }, FieldStock, "Stok tidak boleh negatif."},
		{"stock zero", func(d *Draft) { d.Stock = "0" }, FieldStock, ""},
		{"stock at max", func(d *Draft) { d.Stock = "9999" }, FieldStock, ""},
		{"stock over max", func(d *Draft) { d.Stock = "10000" }, FieldStock, "Stok maksimal 9999."},
		{"description short", func(d *Draft) { d.Description = "terlalu pendek" }, FieldDescription, "Deskripsi minimal 20 karakter."},
		{"description empty", func(d *Draft) { d.Description = "" }, FieldDescription, "Deskripsi minimal 20 karakter."},
		{"description long ok", func(d *Draft) { d.Description = strings.Repeat("d", 500) }, FieldDescription, ""},
		{"name max 100", func(d *Draft) { d.Name = strings.Repeat("n", 100) }, FieldName, ""},
		{"name over 100", func(d *Draft) { d.Name = strings.Repeat("n", 101) }, FieldName, "Maksimal 100 karakter."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validExtendedDraft()
			tt.mut(&d)
			errs := p.Validate(d, nil, nil, today)
			assert.Equal(t, tt.want, errs[string(tt.field)])
		})
	}
}

func TestValidate_ReportsAllFailingFields(t *testing.T) {
	p := ExtendedPolicy()
	errs := p.Validate(Draft{}, nil, nil, today)

	for _, f := range p.ActiveFields() {
		if f == FieldIsActive {
			continue
		}
		assert.True(t, errs.Has(string(f)), "missing error for %s", f)
	}
	assert.Error(t, errs.Err())
}

func TestNormalize_Extended(t *testing.T) {
	p := ExtendedPolicy()
	d := validExtendedDraft()
	d.Name = " Kopi Bubuk "
	d.Price = " 32000.5 "

	f := p.Normalize(d)
	assert.Equal(t, "Kopi Bubuk", f.Name)
	assert.Equal(t, 32000.5, f.Price)
	assert.Equal(t, 10, f.Stock)
	assert.Equal(t, "2025-06-15", f.ReleaseDate)
	assert.True(t, f.IsActive)
}

func TestNormalize_SimpleZeroesExtendedFields(t *testing.T) {
	f := SimplePolicy().Normalize(validExtendedDraft())
	assert.Equal(t, Fields{Name: "Kopi Bubuk", Description: "Kopi robusta giling halus 250 gram"}, f)
}

func TestDraftRoundTrip(t *testing.T) {
	p := ExtendedPolicy()
	for _, seed := range p.Seed() {
		d := DraftFrom(seed)
		assert.Equal(t, seed.Fields, p.Normalize(d))
	}
}

func TestDraftSetGet(t *testing.T) {
	var d Draft
	require.True(t, d.Set(FieldName, "Gula"))
	require.True(t, d.Set(FieldIsActive, "true"))
	assert.Equal(t, "Gula", d.Get(FieldName))
	assert.True(t, d.IsActive)

	d.Set(FieldIsActive, "bukan")
	assert.False(t, d.IsActive)

	assert.False(t, d.Set(Field("color"), "red"))
}

func TestParseField(t *testing.T) {
	f, ok := ParseField(" releaseDate ")
	assert.True(t, ok)
	assert.Equal(t, FieldReleaseDate, f)

	_, ok = ParseField("unknown")
	assert.False(t, ok)
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("EXTENDED")
	require.NoError(t, err)
	assert.True(t, p.Extended)

	p, err = PolicyFor("")
	require.NoError(t, err)
	assert.Equal(t, VariantSimple, p.Variant)

	_, err = PolicyFor("deluxe")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	for _, p := range []Policy{SimplePolicy(), ExtendedPolicy()} {
		seed := p.Seed()
		assert.Empty(t, CheckInvariants(seed))
		for _, rec := range seed {
			errs := p.Validate(DraftFrom(rec), seed, &rec.ID, today)
			assert.True(t, errs.Empty(), "seed %q invalid: %v", rec.Name, errs)
		}
		seed[0].Name = "mutated"
		assert.NotEqual(t, "mutated", p.Seed()[0].Name, "Seed returns a fresh slice")
	}
}

func TestCheckInvariants(t *testing.T) {
	assert.Empty(t, CheckInvariants(nil))
	assert.Contains(t, CheckInvariants([]Product{{ID: 0}}), "non-positive")
	assert.Contains(t, CheckInvariants([]Product{
		New(1, Fields{Name: "a"}), New(1, Fields{Name: "b"}),
	}), "duplicate id")
	assert.Contains(t, CheckInvariants([]Product{
		New(1, Fields{Name: "Teh"}), New(2, Fields{Name: " teh "}),
	}), "duplicate name")
}

func TestDescriptionCounter(t *testing.T) {
	assert.Equal(t, "5/200", SimplePolicy().DescriptionCounter(Draft{Description: "halo!"}))
	assert.Equal(t, "3", ExtendedPolicy().DescriptionCounter(Draft{Description: "abc"}))
}

func TestConfirmDeletePrompt(t *testing.T) {
	assert.Equal(t, `Apakah Anda yakin ingin menghapus produk "Teh"?`, SimplePolicy().ConfirmDeletePrompt("Teh"))
}

package product

// Seed 存储为空或不可读时使用的默认目录，每次返回新的切片
func (p Policy) Seed() []Product {
	if !p.Extended {
		return []Product{
			New(1, Fields{Name: "Makanan", Description: "Produk makanan siap saji"}),
			New(2, Fields{Name: "Minuman", Description: "Aneka minuman dingin & hangat"}),
		}
	}
	return []Product{
		New(1, Fields{
			Name:        "Makanan",
			Description: "Produk makanan siap saji untuk kebutuhan harian",
			Price:       25000,
			Category:    "Makanan",
			ReleaseDate: "2024-01-15",
			Stock:       40,
			IsActive:    true,
		}),
		New(2, Fields{
			Name:        "Minuman",
			Description: "Aneka minuman dingin & hangat dalam kemasan",
			Price:       8000,
			Category:    "Minuman",
			ReleaseDate: "2024-02-01",
			Stock:       120,
			IsActive:    true,
		}),
		New(3, Fields{
			Name:        "Sembako",
			Description: "Paket kebutuhan pokok: beras, gula, dan minyak",
			Price:       150000,
			Category:    "Sembako",
			ReleaseDate: "2024-03-10",
			Stock:       15,
		}),
	}
}

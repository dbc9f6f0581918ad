package models

// Category is one of the four fixed storefront categories.
type Category string

const (
	CategoryPerfumes          Category = "perfumes"
	CategoryTecnologia        Category = "tecnologia"
	CategoryElectrodomesticos Category = "electrodomesticos"
	CategoryRelojes           Category = "relojes"
)

// Categories lists every valid product category.
var Categories = []Category{
	CategoryPerfumes,
	CategoryTecnologia,
	CategoryElectrodomesticos,
	CategoryRelojes,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a purchasable product in the catalog.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	Image       string   `json:"image"`
	Category    Category `json:"category" validate:"required,oneof=perfumes tecnologia electrodomesticos relojes"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	InStock     bool     `json:"inStock"`
	Featured    bool     `json:"featured,omitempty"`
	Brand       string   `json:"brand,omitempty"`
}

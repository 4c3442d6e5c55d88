package domain

import "time"

// Categories is the fixed set of catalog categories. Product forms and
// filters only ever offer these values.
var Categories = []string{
	"Laptops",
	"Smartphones",
	"Mice",
	"Keyboards",
	"Headphones",
	"Tablets",
	"Accessories",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageRef    string    `json:"image_ref"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint";
// SearchText matches name or description case-insensitively.
type ProductFilter struct {
	Category   string
	SearchText string
	SellerID   string
	ActiveOnly bool
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id string) (*Product, error)
	UpdateProduct(product *Product) (*Product, error)
	ListProducts(filter ProductFilter) ([]Product, error)

	// AdjustStock atomically applies delta to the product's stock. It fails
	// with ErrProductUnavailable when the result would be negative, leaving
	// the stock unchanged.
	AdjustStock(id string, delta int) (*Product, error)
}

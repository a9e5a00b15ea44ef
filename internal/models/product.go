package models

import (
	"slices"
	"time"
)

// Product is a catalog item
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput carries the user-editable fields of a product
type ProductInput struct {
	Name        string  `json:"name" validate:"required,notblank"`
	Category    string  `json:"category" validate:"required,notblank"`
	Brand       string  `json:"brand" validate:"required,notblank"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

// ToProduct builds a product without identity or timestamps
func (in ProductInput) ToProduct() Product {
	return Product{
		Name:        in.Name,
		Category:    in.Category,
		Brand:       in.Brand,
		Price:       in.Price,
		Description: in.Description,
	}
}

// CloneProducts returns an independent copy of products.
// Product holds no references, so a shallow slice copy is enough; nil stays nil.
func CloneProducts(products []Product) []Product {
	return slices.Clone(products)
}

// CloneStrings returns an independent copy of values
func CloneStrings(values []string) []string {
	return slices.Clone(values)
}

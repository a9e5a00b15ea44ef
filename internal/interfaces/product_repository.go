package interfaces

import (
	"context"

	"go-catalog-cache/internal/models"
)

//go:generate mockgen -package=mock -source=product_repository.go -destination=mock/product_repository.go

// ProductRepository is the backing data source of the catalog.
// Lookups of a missing id return models.ErrProductNotFound.
type ProductRepository interface {
	Add(ctx context.Context, product models.Product) (models.Product, error)
	FindByID(ctx context.Context, id int64) (models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id int64, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int64) error

	SearchByName(ctx context.Context, keyword string) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	FindByBrand(ctx context.Context, brand string) ([]models.Product, error)
	FindByPriceRange(ctx context.Context, min, max float64) ([]models.Product, error)

	Count(ctx context.Context) (int, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}

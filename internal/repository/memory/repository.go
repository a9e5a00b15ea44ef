package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

// Ensure Repository implements interfaces.ProductRepository
var _ interfaces.ProductRepository = (*Repository)(nil)

// Repository keeps products in memory with category and brand indexes
type Repository struct {
	mu         sync.RWMutex
	products   map[int64]models.Product
	byCategory map[string]map[int64]struct{}
	byBrand    map[string]map[int64]struct{}
	nextID     int64
	now        func() time.Time
}

// NewRepository creates an empty in-memory repository
func NewRepository() *Repository {
	return &Repository{
		products:   make(map[int64]models.Product),
		byCategory: make(map[string]map[int64]struct{}),
		byBrand:    make(map[string]map[int64]struct{}),
		nextID:     1,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Add assigns the next id and stores the product
func (r *Repository) Add(ctx context.Context, product models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++

	r.products[product.ID] = product
	addToIndex(r.byCategory, product.Category, product.ID)
	addToIndex(r.byBrand, product.Brand, product.ID)

	return product, nil
}

// FindByID returns the product with id or models.ErrProductNotFound
func (r *Repository) FindByID(ctx context.Context, id int64) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	return product, nil
}

// FindAll returns every product ordered by id
func (r *Repository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.filter(ctx, func(models.Product) bool { return true })
}

// Update replaces the editable fields of product id
func (r *Repository) Update(ctx context.Context, id int64, product models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}

	removeFromIndex(r.byCategory, existing.Category, id)
	removeFromIndex(r.byBrand, existing.Brand, id)

	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = r.now()
	r.products[id] = product

	addToIndex(r.byCategory, product.Category, id)
	addToIndex(r.byBrand, product.Brand, id)

	return product, nil
}

// Delete removes product id
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}

	delete(r.products, id)
	removeFromIndex(r.byCategory, existing.Category, id)
	removeFromIndex(r.byBrand, existing.Brand, id)
	return nil
}

// SearchByName returns products whose name contains keyword, ignoring case
func (r *Repository) SearchByName(ctx context.Context, keyword string) ([]models.Product, error) {
	needle := strings.ToLower(keyword)
	return r.filter(ctx, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
}

// FindByCategory returns products with exactly this category
func (r *Repository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.fromIndex(ctx, r.byCategory, category)
}

// FindByBrand returns products with exactly this brand
func (r *Repository) FindByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	return r.fromIndex(ctx, r.byBrand, brand)
}

// FindByPriceRange returns products priced within [min, max]
func (r *Repository) FindByPriceRange(ctx context.Context, min, max float64) ([]models.Product, error) {
	return r.filter(ctx, func(p models.Product) bool {
		return p.Price >= min && p.Price <= max
	})
}

// Count returns the number of products
func (r *Repository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}

// Categories returns the distinct categories in sorted order
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	return r.indexKeys(ctx, r.byCategory)
}

// Brands returns the distinct brands in sorted order
func (r *Repository) Brands(ctx context.Context) ([]string, error) {
	return r.indexKeys(ctx, r.byBrand)
}

func (r *Repository) filter(ctx context.Context, match func(models.Product) bool) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Product, 0)
	for _, product := range r.products {
		if match(product) {
			result = append(result, product)
		}
	}
	sortByID(result)
	return result, nil
}

func (r *Repository) fromIndex(ctx context.Context, index map[string]map[int64]struct{}, value string) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := index[value]
	result := make([]models.Product, 0, len(ids))
	for id := range ids {
		result = append(result, r.products[id])
	}
	sortByID(result)
	return result, nil
}

func (r *Repository) indexKeys(ctx context.Context, index map[string]map[int64]struct{}) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

func addToIndex(index map[string]map[int64]struct{}, value string, id int64) {
	ids, ok := index[value]
	if !ok {
		ids = make(map[int64]struct{})
		index[value] = ids
	}
	ids[id] = struct{}{}
}

// removeFromIndex drops id and forgets value once nothing references it
func removeFromIndex(index map[string]map[int64]struct{}, value string, id int64) {
	ids, ok := index[value]
	if !ok {
		return
	}
	delete(ids, id)
	if len(ids) == 0 {
		delete(index, value)
	}
}

func sortByID(products []models.Product) {
	slices.SortFunc(products, func(a, b models.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

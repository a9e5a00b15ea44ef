package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

// Ensure Repository implements interfaces.ProductRepository
var _ interfaces.ProductRepository = (*Repository)(nil)

const productColumns = `id, name, category, brand, price, description, created_at, updated_at`

// Repository stores products in the catalog.products table
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRepository connects to dsn and makes sure the schema exists
func NewRepository(ctx context.Context, dsn string, logger *zap.Logger) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	r := &Repository{pool: pool, logger: logger}

	if err := r.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if err := r.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Connected to PostgreSQL product repository")
	return r, nil
}

// Close releases the connection pool
func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// Ping checks the connection
func (r *Repository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("postgres not initialized")
	}
	return r.pool.Ping(ctx)
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS catalog`,
		`CREATE TABLE IF NOT EXISTS catalog.products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			brand TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON catalog.products(category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_brand ON catalog.products(brand)`,
		`CREATE INDEX IF NOT EXISTS idx_products_price ON catalog.products(price)`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Add inserts product and returns it with its generated id
func (r *Repository) Add(ctx context.Context, product models.Product) (models.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO catalog.products (name, category, brand, price, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		product.Name, product.Category, product.Brand, product.Price, product.Description,
	)

	added, err := scanProduct(row)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return added, nil
}

// FindByID returns the product with id or models.ErrProductNotFound
func (r *Repository) FindByID(ctx context.Context, id int64) (models.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM catalog.products WHERE id = $1`, id)

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// FindAll returns every product ordered by id
func (r *Repository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM catalog.products ORDER BY id`)
}

// Update replaces the editable fields of product id
func (r *Repository) Update(ctx context.Context, id int64, product models.Product) (models.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE catalog.products
		SET name = $1, category = $2, brand = $3, price = $4, description = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+productColumns,
		product.Name, product.Category, product.Brand, product.Price, product.Description, id,
	)

	updated, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Delete removes product id
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM catalog.products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	return nil
}

// SearchByName returns products whose name contains keyword, ignoring case.
// strpos keeps LIKE wildcards in the keyword literal.
func (r *Repository) SearchByName(ctx context.Context, keyword string) ([]models.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM catalog.products WHERE strpos(lower(name), lower($1)) > 0 ORDER BY id`,
		keyword)
}

// FindByCategory returns products with exactly this category
func (r *Repository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM catalog.products WHERE category = $1 ORDER BY id`,
		category)
}

// FindByBrand returns products with exactly this brand
func (r *Repository) FindByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM catalog.products WHERE brand = $1 ORDER BY id`,
		brand)
}

// FindByPriceRange returns products priced within [min, max]
func (r *Repository) FindByPriceRange(ctx context.Context, min, max float64) ([]models.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM catalog.products WHERE price BETWEEN $1 AND $2 ORDER BY id`,
		min, max)
}

// Count returns the number of products
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM catalog.products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Categories returns the distinct categories in sorted order
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT category FROM catalog.products ORDER BY category`)
}

// Brands returns the distinct brands in sorted order
func (r *Repository) Brands(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT brand FROM catalog.products ORDER BY brand`)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect values: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Brand, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

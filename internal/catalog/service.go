package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-catalog-cache/internal/cache/readthrough"
	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

const tracerName = "go-catalog-cache/internal/catalog"

// Service is the product catalog. Reads are served through read-through caches,
// every write attempt invalidates them.
type Service struct {
	repo       interfaces.ProductRepository
	products   *readthrough.Coordinator[[]models.Product]
	facets     *readthrough.Coordinator[[]string]
	keyBuilder interfaces.KeyBuilder
	audit      interfaces.AuditLogger
	validate   *validator.Validate
	tracer     trace.Tracer
	logger     *zap.Logger
}

// CacheStats groups the counters of both catalog caches
type CacheStats struct {
	Products models.CacheStats `json:"products"`
	Facets   models.CacheStats `json:"facets"`
}

// NewService creates a new catalog service instance
func NewService(
	repo interfaces.ProductRepository,
	products *readthrough.Coordinator[[]models.Product],
	facets *readthrough.Coordinator[[]string],
	keyBuilder interfaces.KeyBuilder,
	audit interfaces.AuditLogger,
	logger *zap.Logger,
) (*Service, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register notblank validator: %w", err)
	}

	return &Service{
		repo:       repo,
		products:   products,
		facets:     facets,
		keyBuilder: keyBuilder,
		audit:      audit,
		validate:   validate,
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}, nil
}

// AddProduct validates and stores a new product
func (s *Service) AddProduct(ctx context.Context, actor string, input models.ProductInput) (models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.AddProduct")
	defer span.End()

	if err := s.validateInput(input); err != nil {
		return models.Product{}, recordSpanError(span, err)
	}

	added, err := s.repo.Add(ctx, input.ToProduct())
	s.invalidateOnWrite()
	if err != nil {
		return models.Product{}, recordSpanError(span, fmt.Errorf("failed to add product: %w", err))
	}

	span.SetAttributes(attribute.Int64("product.id", added.ID))
	s.record(ctx, actor, models.ActionAdd, fmt.Sprintf("Added product: %s (ID: %d)", added.Name, added.ID))
	return added, nil
}

// GetProductByID looks a product up directly in the repository
func (s *Service) GetProductByID(ctx context.Context, id int64) (models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetProductByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, recordSpanError(span, err)
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of an existing product
func (s *Service) UpdateProduct(ctx context.Context, actor string, id int64, input models.ProductInput) (models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.validateInput(input); err != nil {
		return models.Product{}, recordSpanError(span, err)
	}

	updated, err := s.repo.Update(ctx, id, input.ToProduct())
	s.invalidateOnWrite()
	if err != nil {
		return models.Product{}, recordSpanError(span, fmt.Errorf("failed to update product %d: %w", id, err))
	}

	s.record(ctx, actor, models.ActionUpdate, fmt.Sprintf("Updated product ID: %d", id))
	return updated, nil
}

// DeleteProduct removes a product
func (s *Service) DeleteProduct(ctx context.Context, actor string, id int64) error {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return recordSpanError(span, err)
	}

	err = s.repo.Delete(ctx, id)
	s.invalidateOnWrite()
	if err != nil {
		return recordSpanError(span, fmt.Errorf("failed to delete product %d: %w", id, err))
	}

	s.record(ctx, actor, models.ActionDelete, fmt.Sprintf("Deleted product: %s (ID: %d)", existing.Name, id))
	return nil
}

// GetAllProducts returns every product ordered by id
func (s *Service) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetAllProducts")
	defer span.End()

	return s.loadProducts(ctx, span, models.QueryAllProducts, s.repo.FindAll)
}

// SearchByName returns the products whose name contains keyword, ignoring case.
// Every search is audited, cached or not.
func (s *Service) SearchByName(ctx context.Context, actor, keyword string) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.SearchByName")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(keyword))
	if normalized == "" {
		return nil, recordSpanError(span, fmt.Errorf("%w: search keyword must not be blank", models.ErrInvalidQuery))
	}

	results, err := s.loadProducts(ctx, span, models.QuerySearchByName, func(ctx context.Context) ([]models.Product, error) {
		return s.repo.SearchByName(ctx, normalized)
	}, normalized)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, models.ActionSearch, fmt.Sprintf("Searched by name: %s. Results: %d", keyword, len(results)))
	return results, nil
}

// FilterByCategory returns the products of a category
func (s *Service) FilterByCategory(ctx context.Context, category string) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FilterByCategory", trace.WithAttributes(attribute.String("product.category", category)))
	defer span.End()

	if strings.TrimSpace(category) == "" {
		return nil, recordSpanError(span, fmt.Errorf("%w: category must not be blank", models.ErrInvalidQuery))
	}

	return s.loadProducts(ctx, span, models.QueryFilterCategory, func(ctx context.Context) ([]models.Product, error) {
		return s.repo.FindByCategory(ctx, category)
	}, category)
}

// FilterByBrand returns the products of a brand
func (s *Service) FilterByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FilterByBrand", trace.WithAttributes(attribute.String("product.brand", brand)))
	defer span.End()

	if strings.TrimSpace(brand) == "" {
		return nil, recordSpanError(span, fmt.Errorf("%w: brand must not be blank", models.ErrInvalidQuery))
	}

	return s.loadProducts(ctx, span, models.QueryFilterBrand, func(ctx context.Context) ([]models.Product, error) {
		return s.repo.FindByBrand(ctx, brand)
	}, brand)
}

// FilterByPriceRange returns the products priced within [min, max]
func (s *Service) FilterByPriceRange(ctx context.Context, priceRange models.PriceRange) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FilterByPriceRange", trace.WithAttributes(
		attribute.Float64("price.min", priceRange.Min),
		attribute.Float64("price.max", priceRange.Max),
	))
	defer span.End()

	if err := s.validate.Struct(priceRange); err != nil {
		return nil, recordSpanError(span, fmt.Errorf("%w: %v", models.ErrInvalidQuery, err))
	}

	minPrice, maxPrice := foldNegativeZero(priceRange.Min), foldNegativeZero(priceRange.Max)
	return s.loadProducts(ctx, span, models.QueryFilterPrice, func(ctx context.Context) ([]models.Product, error) {
		return s.repo.FindByPriceRange(ctx, minPrice, maxPrice)
	}, minPrice, maxPrice)
}

// TotalProductCount returns the number of products
func (s *Service) TotalProductCount(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.TotalProductCount")
	defer span.End()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, recordSpanError(span, fmt.Errorf("failed to count products: %w", err))
	}
	return count, nil
}

// AllCategories returns the distinct categories in sorted order
func (s *Service) AllCategories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.AllCategories")
	defer span.End()

	return s.loadFacet(ctx, span, models.QueryFacetCategories, s.repo.Categories)
}

// AllBrands returns the distinct brands in sorted order
func (s *Service) AllBrands(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.AllBrands")
	defer span.End()

	return s.loadFacet(ctx, span, models.QueryFacetBrands, s.repo.Brands)
}

// CacheStats returns a snapshot of both caches
func (s *Service) CacheStats() CacheStats {
	return CacheStats{
		Products: s.products.MetricsSnapshot(),
		Facets:   s.facets.MetricsSnapshot(),
	}
}

// InvalidateCache drops every cached query result
func (s *Service) InvalidateCache() {
	s.invalidateOnWrite()
	s.logger.Info("Catalog cache invalidated")
}

func (s *Service) loadProducts(
	ctx context.Context,
	span trace.Span,
	kind models.QueryKind,
	loader readthrough.Loader[[]models.Product],
	params ...any,
) ([]models.Product, error) {
	key, err := s.keyBuilder.Build(kind, params...)
	if err != nil {
		return nil, recordSpanError(span, fmt.Errorf("failed to build cache key: %w", err))
	}

	results, err := s.products.GetOrLoad(ctx, key, loader)
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	span.SetAttributes(attribute.Int("result.count", len(results)))
	return results, nil
}

func (s *Service) loadFacet(
	ctx context.Context,
	span trace.Span,
	kind models.QueryKind,
	loader readthrough.Loader[[]string],
) ([]string, error) {
	key, err := s.keyBuilder.Build(kind)
	if err != nil {
		return nil, recordSpanError(span, fmt.Errorf("failed to build cache key: %w", err))
	}

	values, err := s.facets.GetOrLoad(ctx, key, loader)
	if err != nil {
		return nil, recordSpanError(span, err)
	}
	return values, nil
}

// invalidateOnWrite runs whether or not the write succeeded: a failed write may
// still have changed the data source.
func (s *Service) invalidateOnWrite() {
	s.products.InvalidateOnWrite()
	s.facets.InvalidateOnWrite()
}

func (s *Service) validateInput(input models.ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return fmt.Errorf("%w: field %s failed on %s", models.ErrInvalidProduct, fieldErr.Field(), fieldErr.Tag())
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidProduct, err)
	}
	return nil
}

// record writes an audit record. Audit failures never fail the operation.
func (s *Service) record(ctx context.Context, actor string, action models.Action, details string) {
	if s.audit == nil {
		return
	}

	if err := s.audit.Log(ctx, models.NewAuditRecord(actor, action, details)); err != nil {
		s.logger.Warn("Failed to write audit record",
			zap.String("actor", actor),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// foldNegativeZero maps -0 to 0 so both spellings share a cache key
func foldNegativeZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func recordSpanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

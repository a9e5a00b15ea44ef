package models

// QueryKind identifies the shape of a cached catalog query
type QueryKind string

const (
	QueryAllProducts     QueryKind = "products:all"
	QuerySearchByName    QueryKind = "products:search:name"
	QueryFilterCategory  QueryKind = "products:filter:category"
	QueryFilterBrand     QueryKind = "products:filter:brand"
	QueryFilterPrice     QueryKind = "products:filter:price"
	QueryFacetCategories QueryKind = "facets:categories"
	QueryFacetBrands     QueryKind = "facets:brands"
)

// PriceRange is an inclusive price interval
type PriceRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-catalog-cache/internal/utils"
)

// handleGetAllProducts lists every product
func (s *Server) handleGetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.GetAllProducts(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, products)
}

// handleGetProduct returns a single product
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseProductID(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	product, err := s.catalog.GetProductByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, product)
}

// handleSearchByName searches products by name keyword
func (s *Server) handleSearchByName(w http.ResponseWriter, r *http.Request) {
	actor := utils.ActorFromHeader(r.Header.Get(ActorHeader))

	products, err := s.catalog.SearchByName(r.Context(), actor, r.URL.Query().Get("name"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, products)
}

// handleFilterByCategory filters products by category
func (s *Server) handleFilterByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.FilterByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, products)
}

// handleFilterByBrand filters products by brand
func (s *Server) handleFilterByBrand(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.FilterByBrand(r.Context(), mux.Vars(r)["brand"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, products)
}

// handleFilterByPrice filters products by an inclusive price range
func (s *Server) handleFilterByPrice(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	priceRange, err := utils.ParsePriceRange(query.Get("min"), query.Get("max"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	products, err := s.catalog.FilterByPriceRange(r.Context(), priceRange)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, products)
}

// handleCount returns the number of products
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.catalog.TotalProductCount(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, &CountResponse{Count: count})
}

// handleCategories lists distinct categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.AllCategories(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, categories)
}

// handleBrands lists distinct brands
func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.catalog.AllBrands(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, brands)
}

// handleAddProduct creates a product
func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(r)
	if err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	input, err := utils.ParseProductInput(body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	actor := utils.ActorFromHeader(r.Header.Get(ActorHeader))
	product, err := s.catalog.AddProduct(r.Context(), actor, input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &APIResponse{Success: true, Data: product})
}

// handleUpdateProduct replaces a product
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseProductID(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	body, err := s.readBody(r)
	if err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	input, err := utils.ParseProductInput(body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	actor := utils.ActorFromHeader(r.Header.Get(ActorHeader))
	product, err := s.catalog.UpdateProduct(r.Context(), actor, id, input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeResponse(w, product)
}

// handleDeleteProduct removes a product
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseProductID(mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	actor := utils.ActorFromHeader(r.Header.Get(ActorHeader))
	if err := s.catalog.DeleteProduct(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCacheStats reports cache counters
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	report := make([]string, 0, len(s.reporters))
	for _, reporter := range s.reporters {
		report = append(report, reporter.Format())
	}

	s.writeResponse(w, &CacheStatsResponse{
		CacheStats: s.catalog.CacheStats(),
		Report:     report,
	})
}

// handleCacheInvalidate drops every cached query result
func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	s.catalog.InvalidateCache()
	s.writeResponse(w, &InvalidateResponse{Invalidated: true})
}

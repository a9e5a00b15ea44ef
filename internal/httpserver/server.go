package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-catalog-cache/internal/catalog"
	"go-catalog-cache/internal/config"
	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/metrics"
	"go-catalog-cache/internal/models"
)

// ActorHeader carries the name of the acting user for audit records
const ActorHeader = "X-Actor"

// Server represents the catalog HTTP API
type Server struct {
	catalog   *catalog.Service
	audit     interfaces.AuditReader // nil when the audit sink keeps no records
	reporters []*metrics.Reporter
	config    config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a new catalog HTTP server
func NewServer(catalogService *catalog.Service, auditReader interfaces.AuditReader, reporters []*metrics.Reporter, cfg config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		catalog:   catalogService,
		audit:     auditReader,
		reporters: reporters,
		config:    cfg,
		logger:    logger,
	}
}

// Start serves on the configured Unix socket, or on the TCP address when no socket is set
func (s *Server) Start() error {
	if s.config.SocketPath != "" {
		return s.StartUnixSocket(s.config.SocketPath)
	}
	return s.StartTCP(s.config.Address)
}

// StartUnixSocket starts the HTTP server on a Unix socket
func (s *Server) StartUnixSocket(socketPath string) error {
	// Remove existing socket file
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	// Set socket permissions (readable/writable by owner and group)
	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}

	s.logger.Info("Starting catalog HTTP server on Unix socket", zap.String("socket_path", socketPath))
	return s.serve(listener)
}

// StartTCP starts the HTTP server on a TCP address
func (s *Server) StartTCP(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.logger.Info("Starting catalog HTTP server", zap.String("address", listener.Addr().String()))
	return s.serve(listener)
}

func (s *Server) serve(listener net.Listener) error {
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	return s.server.Serve(listener)
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping catalog HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.createRouter()
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Product reads
	router.HandleFunc("/products", s.handleGetAllProducts).Methods("GET")
	router.HandleFunc("/products/search", s.handleSearchByName).Methods("GET")
	router.HandleFunc("/products/count", s.handleCount).Methods("GET")
	router.HandleFunc("/products/price", s.handleFilterByPrice).Methods("GET")
	router.HandleFunc("/products/category/{category}", s.handleFilterByCategory).Methods("GET")
	router.HandleFunc("/products/brand/{brand}", s.handleFilterByBrand).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods("GET")
	router.HandleFunc("/categories", s.handleCategories).Methods("GET")
	router.HandleFunc("/brands", s.handleBrands).Methods("GET")

	// Product writes
	router.HandleFunc("/products", s.handleAddProduct).Methods("POST")
	router.HandleFunc("/products/{id:[0-9]+}", s.handleUpdateProduct).Methods("PUT")
	router.HandleFunc("/products/{id:[0-9]+}", s.handleDeleteProduct).Methods("DELETE")

	// Cache management
	router.HandleFunc("/cache/stats", s.handleCacheStats).Methods("GET")
	router.HandleFunc("/cache/invalidate", s.handleCacheInvalidate).Methods("POST")

	// Audit trail
	router.HandleFunc("/audit", s.handleAuditRecords).Methods("GET")
	router.HandleFunc("/audit/count", s.handleAuditCount).Methods("GET")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// readBody reads the whole request body
func (s *Server) readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// writeResponse writes a successful JSON envelope
func (s *Server) writeResponse(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, &APIResponse{Success: true, Data: data})
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, &APIResponse{Success: false, Error: message})
}

// writeServiceError maps catalog errors onto HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidProduct), errors.Is(err, models.ErrInvalidQuery):
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrProductNotFound):
		s.writeErrorResponse(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("Catalog request failed", zap.Error(err))
		s.writeErrorResponse(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

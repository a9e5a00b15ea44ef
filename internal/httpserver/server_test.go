package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-catalog-cache/internal/cache"
	"go-catalog-cache/internal/cache/lru"
	"go-catalog-cache/internal/cache/readthrough"
	"go-catalog-cache/internal/catalog"
	"go-catalog-cache/internal/config"
	"go-catalog-cache/internal/interfaces/mock"
	"go-catalog-cache/internal/metrics"
	"go-catalog-cache/internal/models"
	"go-catalog-cache/internal/repository/memory"
)

type testServer struct {
	handler http.Handler
	audit   *mock.MockAuditLogger
	reader  *mock.MockAuditReader
	store   *lru.Store[[]models.Product]
}

// newTestServer builds the full stack over a seeded in-memory repository
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ctrl := gomock.NewController(t)

	repo := memory.NewRepository()
	for _, p := range memory.DemoProducts() {
		_, err := repo.Add(context.Background(), p)
		require.NoError(t, err)
	}

	productStore, err := lru.New(100, 5*time.Minute, lru.WithCloner(models.CloneProducts))
	require.NoError(t, err)
	facetStore, err := lru.New(100, 5*time.Minute, lru.WithCloner(models.CloneStrings))
	require.NoError(t, err)

	products := readthrough.New[[]models.Product]("products", productStore, logger)
	facets := readthrough.New[[]string]("facets", facetStore, logger)

	audit := mock.NewMockAuditLogger(ctrl)
	service, err := catalog.NewService(repo, products, facets, cache.NewKeyBuilder(), audit, logger)
	require.NoError(t, err)

	reporters := []*metrics.Reporter{
		metrics.NewReporter("products", products),
		metrics.NewReporter("facets", facets),
	}
	reader := mock.NewMockAuditReader(ctrl)
	server := NewServer(service, reader, reporters, config.Default().Server, logger)

	return &testServer{handler: server.Handler(), audit: audit, reader: reader, store: productStore}
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte, actor string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	w := httptest.NewRecorder()

	ts.handler.ServeHTTP(w, req)

	var response APIResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

// decodeData re-decodes the generic data field into v
func decodeData(t *testing.T, response APIResponse, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(response.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	w, response := ts.do(t, "GET", "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestServer_GetAllProducts_Cached(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 2; i++ {
		w, response := ts.do(t, "GET", "/products", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var products []models.Product
		decodeData(t, response, &products)
		assert.Len(t, products, len(memory.DemoProducts()))
	}

	assert.Equal(t, uint64(1), ts.store.Hits())
	assert.Equal(t, uint64(1), ts.store.Misses())
}

func TestServer_GetProduct(t *testing.T) {
	ts := newTestServer(t)

	w, response := ts.do(t, "GET", "/products/2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var product models.Product
	decodeData(t, response, &product)
	assert.Equal(t, "iPhone 15", product.Name)

	w, response = ts.do(t, "GET", "/products/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, response.Success)
}

func TestServer_Search(t *testing.T) {
	ts := newTestServer(t)
	ts.audit.EXPECT().Log(gomock.Any(), gomock.Cond(func(x any) bool {
		record := x.(models.AuditRecord)
		return record.Action == models.ActionSearch && record.Username == "alice"
	})).Return(nil)

	w, response := ts.do(t, "GET", "/products/search?name=galaxy", nil, "alice")

	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	decodeData(t, response, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Galaxy S24", products[0].Name)
}

func TestServer_Search_BlankKeyword(t *testing.T) {
	ts := newTestServer(t)

	w, response := ts.do(t, "GET", "/products/search?name=", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, response.Success)
	assert.NotEmpty(t, response.Error)
}

func TestServer_Filters(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path      string
		wantCount int
	}{
		{path: "/products/category/Furniture", wantCount: 2},
		{path: "/products/brand/Apple", wantCount: 2},
		{path: "/products/price?min=100&max=200", wantCount: 2},
		{path: "/products/price?max=100", wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, response := ts.do(t, "GET", tt.path, nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			var products []models.Product
			decodeData(t, response, &products)
			assert.Len(t, products, tt.wantCount)
		})
	}
}

func TestServer_PriceRange_Invalid(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/products/price?min=5", "/products/price?min=50&max=10", "/products/price?min=-1&max=10"} {
		w, _ := ts.do(t, "GET", path, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestServer_CountAndFacets(t *testing.T) {
	ts := newTestServer(t)

	w, response := ts.do(t, "GET", "/products/count", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var count CountResponse
	decodeData(t, response, &count)
	assert.Equal(t, len(memory.DemoProducts()), count.Count)

	w, response = ts.do(t, "GET", "/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	decodeData(t, response, &categories)
	assert.Equal(t, []string{"Electronics", "Furniture", "Shoes"}, categories)

	w, response = ts.do(t, "GET", "/brands", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var brands []string
	decodeData(t, response, &brands)
	assert.Contains(t, brands, "Samsung")
}

func TestServer_WriteInvalidatesCache(t *testing.T) {
	ts := newTestServer(t)
	ts.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	w, _ := ts.do(t, "GET", "/products/brand/Acme", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, ts.store.Size())

	body := []byte(`{"name":"Rocket Skates","category":"Shoes","brand":"Acme","price":49.99}`)
	w, response := ts.do(t, "POST", "/products", body, "admin")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	decodeData(t, response, &created)
	assert.Equal(t, int64(len(memory.DemoProducts())+1), created.ID)
	assert.Equal(t, 0, ts.store.Size())

	w, response = ts.do(t, "GET", "/products/brand/Acme", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var acme []models.Product
	decodeData(t, response, &acme)
	assert.Len(t, acme, 1, "no stale result after a write")
}

func TestServer_AddProduct_Invalid(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"name":`},
		{name: "blank name", body: `{"name":" ","category":"C","brand":"B","price":1}`},
		{name: "negative price", body: `{"name":"N","category":"C","brand":"B","price":-5}`},
		{name: "unknown field", body: `{"name":"N","category":"C","brand":"B","price":1,"stock":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := ts.do(t, "POST", "/products", []byte(tt.body), "admin")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, response.Success)
		})
	}
}

func TestServer_UpdateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	ts.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	body := []byte(`{"name":"MacBook Air","category":"Electronics","brand":"Apple","price":1099}`)
	w, response := ts.do(t, "PUT", "/products/1", body, "admin")
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Product
	decodeData(t, response, &updated)
	assert.Equal(t, "MacBook Air", updated.Name)

	w, _ = ts.do(t, "DELETE", "/products/1", nil, "admin")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = ts.do(t, "DELETE", "/products/1", nil, "admin")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ts.do(t, "PUT", "/products/999", body, "admin")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CacheStatsAndInvalidate(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, "GET", "/products", nil, "")
	ts.do(t, "GET", "/products", nil, "")

	w, response := ts.do(t, "GET", "/cache/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats CacheStatsResponse
	decodeData(t, response, &stats)
	assert.Equal(t, 1, stats.Products.Size)
	assert.Equal(t, uint64(1), stats.Products.Hits)
	assert.Equal(t, int64(300000), stats.Products.TTLMillis)
	assert.Contains(t, w.Body.String(), `"ttl_ms":300000`)
	require.Len(t, stats.Report, 2)
	assert.Contains(t, stats.Report[0], "cache products")

	w, _ = ts.do(t, "POST", "/cache/invalidate", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, ts.store.Size())
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest("PATCH", "/products", nil)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_StopWithoutStart(t *testing.T) {
	server := NewServer(nil, nil, nil, config.Default().Server, zaptest.NewLogger(t))

	assert.NoError(t, server.Stop(context.Background()))
}

func TestServer_AuditRecords(t *testing.T) {
	ts := newTestServer(t)

	after := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := []models.AuditRecord{
		models.NewAuditRecord("alice", models.ActionSearch, "Searched by name: desk. Results: 1"),
	}
	ts.reader.EXPECT().
		Records(gomock.Any(), models.AuditFilter{Username: "alice", Action: models.ActionSearch, After: after}).
		Return(stored, nil)

	w, response := ts.do(t, "GET", "/audit?user=alice&action=search&after=2025-03-01T12:00:00Z", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var records []models.AuditRecord
	decodeData(t, response, &records)
	require.Len(t, records, 1)
	assert.Equal(t, stored[0].ID, records[0].ID)
	assert.Equal(t, "alice", records[0].Username)
}

func TestServer_AuditRecords_InvalidFilter(t *testing.T) {
	ts := newTestServer(t)

	w, response := ts.do(t, "GET", "/audit?action=teleport", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, response.Success)

	w, _ = ts.do(t, "GET", "/audit?after=yesterday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_AuditRecords_ReaderError(t *testing.T) {
	ts := newTestServer(t)
	ts.reader.EXPECT().Records(gomock.Any(), models.AuditFilter{}).Return(nil, errors.New("connection refused"))

	w, response := ts.do(t, "GET", "/audit", nil, "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.False(t, response.Success)
}

func TestServer_AuditCount(t *testing.T) {
	ts := newTestServer(t)
	ts.reader.EXPECT().Count(gomock.Any()).Return(int64(7), nil)

	w, response := ts.do(t, "GET", "/audit/count", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var count AuditCountResponse
	decodeData(t, response, &count)
	assert.Equal(t, int64(7), count.Count)
}

func TestServer_Audit_LogSinkNotImplemented(t *testing.T) {
	handler := NewServer(nil, nil, nil, config.Default().Server, zaptest.NewLogger(t)).Handler()

	for _, path := range []string{"/audit", "/audit/count"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotImplemented, w.Code, path)
	}
}

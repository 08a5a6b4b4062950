package server

import (
	"net/http"
	"testing"

	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProduct(t *testing.T, s *Server, req productdomain.CreateRequest) map[string]any {
	t.Helper()
	rec := doRequest(s, http.MethodPost, "/api/products", req,
		withHeader(HeaderAuthToken, "Bearer "+adminToken(t)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData(t, rec)
}

func TestCreateProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	auth := withHeader(HeaderAuthToken, "Bearer "+adminToken(t))

	created := createProduct(t, s, laptopBody())
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, created["created_at"], created["updated_at"])

	// Second create with the same code conflicts.
	dup := doRequest(s, http.MethodPost, "/api/products", laptopBody(), auth)
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Contains(t, dup.Body.String(), "LAP-001")

	// Update keeping the code, raising stock.
	update := laptopBody()
	update.Stock = 15
	updated := doRequest(s, http.MethodPut, "/api/products/"+id, update, auth)
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	assert.EqualValues(t, 15, decodeData(t, updated)["stock"])

	// Delete, then the product is gone.
	deleted := doRequest(s, http.MethodDelete, "/api/products/"+id, nil, auth)
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	gone := doRequest(s, http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	created := createProduct(t, s, laptopBody())
	id := created["id"].(string)

	rec := doRequest(s, http.MethodGet, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "Laptop HP", data["name"])
	assert.Equal(t, "LAP-001", data["code"])
}

func TestGetUnknownProduct(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/products/123456789", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUnknownProduct(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api/products/123456789", laptopBody(),
		withHeader(HeaderAuthToken, "Bearer "+adminToken(t)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateInvalidBody(t *testing.T) {
	s := newTestServer(t)
	auth := withHeader(HeaderAuthToken, "Bearer "+adminToken(t))

	invalid := laptopBody()
	invalid.Price = -5
	rec := doRequest(s, http.MethodPost, "/api/products", invalid, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProductsPage(t *testing.T) {
	s := newTestServer(t)

	for _, code := range []string{"A-1", "B-2", "C-3"} {
		req := laptopBody()
		req.Code = code
		createProduct(t, s, req)
	}

	rec := doRequest(s, http.MethodGet, "/api/products?page=0&size=2&sort_by=code&direction=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.EqualValues(t, 3, data["total_elements"])
	assert.EqualValues(t, 2, data["total_pages"])
	assert.EqualValues(t, 0, data["page"])
	assert.Equal(t, true, data["first"])
	assert.Equal(t, false, data["last"])
	items, ok := data["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

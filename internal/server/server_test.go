package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/catalog/internal/auth/token"
	"github.com/smallbiznis/catalog/internal/config"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	productrepository "github.com/smallbiznis/catalog/internal/product/repository"
	productservice "github.com/smallbiznis/catalog/internal/product/service"
	"github.com/smallbiznis/catalog/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "server-test-secret-server-test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&productdomain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := productservice.New(productservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  productrepository.Provide(),
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{AppName: "catalog", Environment: "test", AuthJWTSecret: testSecret},
		DB:         conn,
		Log:        zap.NewNop(),
		Validator:  token.NewValidator(testSecret),
		ProductSvc: svc,
	})
	s.RegisterAPIRoutes()
	return s
}

func adminToken(t *testing.T) string {
	return signedToken(t, jwt.MapClaims{
		"sub":      "admin@example.com",
		"es_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type requestOption func(*http.Request)

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func doRequest(s *Server, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func laptopBody() productdomain.CreateRequest {
	return productdomain.CreateRequest{
		Name:     "Laptop HP",
		Price:    1500.00,
		Stock:    10,
		Category: "Computers",
		Code:     "LAP-001",
	}
}

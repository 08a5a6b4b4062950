package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/smallbiznis/catalog/internal/product/repository"
	"github.com/smallbiznis/catalog/pkg/db"
	"github.com/smallbiznis/catalog/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func laptopRequest() domain.CreateRequest {
	return domain.CreateRequest{
		Name:     "Laptop HP",
		Price:    1500.00,
		Stock:    10,
		Category: "Computers",
		Code:     "LAP-001",
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.True(t, created.Active)
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)

	req := laptopRequest()
	req.Name = "Laptop Lenovo"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrCodeExists)
	assert.Contains(t, err.Error(), "LAP-001")
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name    string
		mutate  func(*domain.CreateRequest)
		wantErr error
	}{
		{"empty name", func(r *domain.CreateRequest) { r.Name = "  " }, domain.ErrInvalidName},
		{"empty code", func(r *domain.CreateRequest) { r.Code = "" }, domain.ErrInvalidCode},
		{"zero price", func(r *domain.CreateRequest) { r.Price = 0 }, domain.ErrInvalidPrice},
		{"negative price", func(r *domain.CreateRequest) { r.Price = -1 }, domain.ErrInvalidPrice},
		{"negative stock", func(r *domain.CreateRequest) { r.Stock = -1 }, domain.ErrInvalidStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := laptopRequest()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGetRoundTrip(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, created.Stock, got.Stock)
	assert.Equal(t, created.Category, got.Category)
	assert.Equal(t, created.Code, got.Code)
	assert.Equal(t, created.Active, got.Active)
}

func TestGetUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), "123456789", domain.UpdateRequest{
		Name:  "Laptop HP",
		Price: 1500.00,
		Stock: 15,
		Code:  "LAP-001",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateKeepOwnCode(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, domain.UpdateRequest{
		Name:     "Laptop HP",
		Price:    1500.00,
		Stock:    15,
		Category: "Computers",
		Code:     "LAP-001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Stock)
	assert.Equal(t, created.ID, updated.ID)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateCodeToTakenCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)

	second := laptopRequest()
	second.Code = "LAP-002"
	created, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, domain.UpdateRequest{
		Name:  "Laptop HP",
		Price: 1500.00,
		Stock: 10,
		Code:  "LAP-001",
	})
	assert.ErrorIs(t, err, domain.ErrCodeExists)
}

func TestUpdateCodeToFreshCode(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, domain.UpdateRequest{
		Name:  "Laptop HP",
		Price: 1500.00,
		Stock: 10,
		Code:  "LAP-009",
	})
	require.NoError(t, err)
	assert.Equal(t, "LAP-009", updated.Code)
}

func TestDeleteTwice(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), laptopRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAll(t *testing.T) {
	svc := newTestService(t)

	for _, code := range []string{"LAP-001", "LAP-002", "LAP-003"} {
		req := laptopRequest()
		req.Code = code
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestListPage(t *testing.T) {
	svc := newTestService(t)

	for _, code := range []string{"A-1", "B-2", "C-3", "D-4", "E-5"} {
		req := laptopRequest()
		req.Code = code
		req.Name = "Product " + code
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	page, err := svc.ListPage(context.Background(), pagination.PageRequest{
		Page: 0, Size: 2, SortBy: "code", Direction: "asc",
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
	assert.Equal(t, "A-1", page.Items[0].Code)

	last, err := svc.ListPage(context.Background(), pagination.PageRequest{
		Page: 2, Size: 2, SortBy: "code", Direction: "asc",
	})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.First)
	assert.True(t, last.Last)
	assert.Equal(t, "E-5", last.Items[0].Code)
}

func TestListPageSortWhitelist(t *testing.T) {
	svc := newTestService(t)

	req := laptopRequest()
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	// Unknown sort fields fall back to id rather than reaching the store.
	page, err := svc.ListPage(context.Background(), pagination.PageRequest{
		Page: 0, Size: 10, SortBy: "price; DROP TABLE products", Direction: "asc",
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

// mockRepository simulates losing the create race: the existence
// pre-check sees no conflict but the store rejects the insert with a
// unique-constraint violation.
type mockRepository struct {
	mock.Mock
	domain.Repository
}

func (m *mockRepository) ExistsByCode(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	args := m.Called(ctx, db, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	args := m.Called(ctx, db, product)
	return args.Error(0)
}

func TestCreateLosingRaceYieldsDuplicateCode(t *testing.T) {
	repo := &mockRepository{}
	repo.On("ExistsByCode", mock.Anything, mock.Anything, "LAP-001").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(gorm.ErrDuplicatedKey)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    nil,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})

	_, err = svc.Create(context.Background(), laptopRequest())
	assert.ErrorIs(t, err, domain.ErrCodeExists)
	repo.AssertExpectations(t)
}

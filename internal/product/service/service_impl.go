package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/smallbiznis/catalog/pkg/db"
	"github.com/smallbiznis/catalog/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// allowedSortFields whitelists ListPage sort columns.
var allowedSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"code":       true,
	"created_at": true,
	"updated_at": true,
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	candidate, err := validate(req.Name, req.Code, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	// Fast-path check for a friendly error. The unique index on code is
	// the final arbiter under concurrency.
	exists, err := s.repo.ExistsByCode(ctx, s.db, candidate.code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateCode(candidate.code)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Name:        candidate.name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    strings.TrimSpace(req.Category),
		Code:        candidate.code,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		// Lost the race to a concurrent create with the same code.
		if db.IsDuplicateKeyErr(err) {
			return nil, duplicateCode(candidate.code)
		}
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", snowflake.ID(p.ID).String()),
		zap.String("code", p.Code),
	)

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	candidate, err := validate(req.Name, req.Code, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound(id)
	}

	// A product keeping its own code is never a conflict.
	if candidate.code != item.Code {
		exists, err := s.repo.ExistsByCode(ctx, s.db, candidate.code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicateCode(candidate.code)
		}
	}

	item.Name = candidate.name
	item.Description = strings.TrimSpace(req.Description)
	item.Price = req.Price
	item.Stock = req.Stock
	item.Category = strings.TrimSpace(req.Category)
	item.Code = candidate.code
	if req.Active != nil {
		item.Active = *req.Active
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, duplicateCode(candidate.code)
		}
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return notFound(id)
	}

	if err := s.repo.Delete(ctx, s.db, productID); err != nil {
		return err
	}

	s.log.Info("product deleted",
		zap.String("product_id", id),
		zap.String("code", item.Code),
	)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound(id)
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ListPage(ctx context.Context, req pagination.PageRequest) (*pagination.Page[domain.Response], error) {
	normalized := req.Normalize(allowedSortFields, "id")

	items, total, err := s.repo.FindPage(ctx, s.db, normalized)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}

	page := pagination.NewPage(resp, normalized, total)
	return &page, nil
}

type validated struct {
	name string
	code string
}

func validate(name, code string, price float64, stock int64) (validated, error) {
	out := validated{
		name: strings.TrimSpace(name),
		code: strings.TrimSpace(code),
	}
	if out.name == "" {
		return validated{}, domain.ErrInvalidName
	}
	if out.code == "" {
		return validated{}, domain.ErrInvalidCode
	}
	if price <= 0 {
		return validated{}, domain.ErrInvalidPrice
	}
	if stock < 0 {
		return validated{}, domain.ErrInvalidStock
	}
	return out, nil
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func duplicateCode(code string) error {
	return fmt.Errorf("%w: %s", domain.ErrCodeExists, code)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(p.ID).String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Code:        p.Code,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

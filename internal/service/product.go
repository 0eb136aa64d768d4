package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rppapi/internal/model"
	"rppapi/internal/repository"
)

type ProductListParams struct {
	PageParams
	Search     string
	Categories []string
}

// CreateProductInput accepts price as a number or a numeric string.
type CreateProductInput struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Price       model.Price `json:"price" validate:"required,gt=0"`
	Category    string      `json:"category" validate:"required"`
	PhotoURL    *string     `json:"photo_url"`
}

// ProductService mirrors DocumentService for catalogue products.
type ProductService interface {
	List(ctx context.Context, p ProductListParams) (*ListResult[model.Product], error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*model.Product, error)
	Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	repo     repository.ProductRepository
	validate *validator.Validate
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo, validate: newValidate()}
}

func (s *productService) List(ctx context.Context, p ProductListParams) (*ListResult[model.Product], error) {
	limit, offset := p.normalize()
	res, err := s.repo.List(ctx, repository.ProductQuery{
		PageQuery:  repository.PageQuery{Limit: limit, Offset: offset},
		Search:     strings.TrimSpace(p.Search),
		Categories: p.Categories,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ListResult[model.Product]{Items: res.Items, Total: res.Total, Offset: offset, Limit: limit}, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	check := in
	check.Name = strings.TrimSpace(in.Name)
	check.Description = strings.TrimSpace(in.Description)
	check.Category = strings.TrimSpace(in.Category)
	if err := s.validate.Struct(check); err != nil {
		return nil, toValidationError(err)
	}

	p, err := s.repo.Create(ctx, &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       float64(in.Price),
		Category:    in.Category,
		PhotoURL:    in.PhotoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id int64, p model.ProductPatch) (*model.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	u := repository.ProductUpdate{
		Name:        nonBlank(p.Name),
		Description: nonBlank(p.Description),
		Category:    nonBlank(p.Category),
	}
	if p.Price != nil && *p.Price > 0 {
		price := float64(*p.Price)
		u.Price = &price
	}
	if p.PhotoURL.Set {
		if p.PhotoURL.Null {
			u.ClearPhoto = true
		} else {
			u.PhotoURL = p.PhotoURL.Ptr()
		}
	}

	out, err := s.repo.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return out, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

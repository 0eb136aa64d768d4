package repository

import (
	"context"

	"rppapi/internal/model"
)

// ProductRepository defines data access for catalogue products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, q ProductQuery) (*PageResult[model.Product], error)
	Update(ctx context.Context, id int64, patch ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductQuery struct {
	PageQuery
	Search     string
	Categories []string
}

// ProductUpdate follows the same nil-means-untouched rule as DocumentUpdate.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	PhotoURL    *string
	ClearPhoto  bool
}

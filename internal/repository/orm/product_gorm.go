package orm

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"rppapi/internal/model"
	"rppapi/internal/repository"
)

// productRow is the persistence shape of model.Product.
type productRow struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"type:numeric(14,2);not null"`
	Category    string  `gorm:"not null;index"`
	PhotoURL    *string `gorm:"column:photo_url"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		PhotoURL:    r.PhotoURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ProductGorm implements repository.ProductRepository on top of GORM.
type ProductGorm struct {
	db *gorm.DB
}

func NewProductGorm(db *gorm.DB) *ProductGorm {
	return &ProductGorm{db: db}
}

var _ repository.ProductRepository = (*ProductGorm)(nil)

func (r *ProductGorm) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := productRow{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		PhotoURL:    p.PhotoURL,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func (r *ProductGorm) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	out := row.toModel()
	return &out, nil
}

func productFilters(q repository.ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Search); s != "" {
			pattern := "%" + repository.EscapeLike(s) + "%"
			db = db.Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
		}
		if len(q.Categories) > 0 {
			db = db.Where("category IN ?", q.Categories)
		}
		return db
	}
}

// List returns a newest-first page of products and the number of rows matching the same filters.
func (r *ProductGorm) List(ctx context.Context, q repository.ProductQuery) (*repository.PageResult[model.Product], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&productRow{}).Scopes(productFilters(q)).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []productRow
	err := r.db.WithContext(ctx).
		Scopes(productFilters(q)).
		Order("created_at DESC, id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return &repository.PageResult[model.Product]{Items: items, Total: int(total)}, nil
}

// Update writes the supplied columns; updated_at is maintained by GORM.
func (r *ProductGorm) Update(ctx context.Context, id int64, u repository.ProductUpdate) (*model.Product, error) {
	values := map[string]any{}
	if u.Name != nil {
		values["name"] = *u.Name
	}
	if u.Description != nil {
		values["description"] = *u.Description
	}
	if u.Price != nil {
		values["price"] = *u.Price
	}
	if u.Category != nil {
		values["category"] = *u.Category
	}
	switch {
	case u.ClearPhoto:
		values["photo_url"] = nil
	case u.PhotoURL != nil:
		values["photo_url"] = *u.PhotoURL
	}
	values["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&productRow{ID: id}).Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ProductGorm) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

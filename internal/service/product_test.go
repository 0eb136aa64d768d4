package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rppapi/internal/model"
	"rppapi/internal/repository"
	repoMocks "rppapi/internal/repository/mocks"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("string price accepted", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Name == "Buku" && p.Price == 12500 && p.PhotoURL == nil
		})).Return(&model.Product{ID: 3}, nil)

		var in CreateProductInput
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Buku","description":"Tulis","price":"12500","category":"ATK"}`), &in))

		p, err := NewProductService(mRepo).Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := NewProductService(new(repoMocks.MockProductRepository)).Create(ctx, CreateProductInput{Name: "Buku"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{"description", "price", "category"}, verr.Fields)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewProductService(new(repoMocks.MockProductRepository)).Create(ctx, CreateProductInput{
			Name: "Buku", Description: "x", Category: "ATK", Price: -1,
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"price"}, verr.Fields)
	})

	t.Run("repo error", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("insert failed"))

		_, err := NewProductService(mRepo).Create(ctx, CreateProductInput{Name: "a", Description: "b", Category: "c", Price: 1})
		assert.EqualError(t, err, "create product: insert failed")
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	price := 9000.0

	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("Update", ctx, int64(2), repository.ProductUpdate{
		Price:      &price,
		Category:   strPtr("Buku"),
		ClearPhoto: true,
	}).Return(&model.Product{ID: 2}, nil)

	var patch model.ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"","price":"9000","category":"Buku","photo_url":null}`), &patch))

	_, err := NewProductService(mRepo).Update(ctx, 2, patch)
	require.NoError(t, err)
	mRepo.AssertExpectations(t)
}

func TestProductService_Update_NonPositivePriceKeepsPrior(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("Update", ctx, int64(2), repository.ProductUpdate{}).Return(&model.Product{ID: 2}, nil)

	var patch model.ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"price":0}`), &patch))

	_, err := NewProductService(mRepo).Update(ctx, 2, patch)
	require.NoError(t, err)
	mRepo.AssertExpectations(t)
}

func TestProductService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockProductRepository)
	svc := NewProductService(mRepo)

	mRepo.On("FindByID", ctx, int64(8)).Return(nil, repository.ErrNotFound)
	_, err := svc.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrNotFound)

	mRepo.On("Delete", ctx, int64(8)).Return(repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 8), ErrNotFound)

	mRepo.On("Delete", ctx, int64(9)).Return(nil)
	assert.NoError(t, svc.Delete(ctx, 9))

	assert.ErrorIs(t, svc.Delete(ctx, -1), ErrInvalidID)
	mRepo.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("List", ctx, repository.ProductQuery{
		PageQuery:  repository.PageQuery{Limit: 10, Offset: 0},
		Categories: []string{"ATK"},
	}).Return(&repository.PageResult[model.Product]{Items: []model.Product{}, Total: 0}, nil)

	res, err := NewProductService(mRepo).List(ctx, ProductListParams{Categories: []string{"ATK"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 10, res.Limit)
	mRepo.AssertExpectations(t)
}

package orm

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rppapi/internal/model"
	"rppapi/internal/repository"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return gdb, mock
}

var productColumns = []string{"id", "name", "description", "price", "category", "photo_url", "created_at", "updated_at"}

func TestProductGorm_Create(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewProductGorm(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	got, err := repo.Create(context.Background(), &model.Product{
		Name:        "Buku Tulis",
		Description: "38 lembar",
		Price:       5000,
		Category:    "Buku",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "Buku Tulis", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGorm_FindByID(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewProductGorm(gdb)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE "products"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows(productColumns).AddRow(3, "Pensil", "HB", 2500.0, "ATK", nil, now, now))

		p, err := repo.FindByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Pensil", p.Name)
		assert.Nil(t, p.PhotoURL)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
			WillReturnRows(sqlmock.NewRows(productColumns))

		p, err := repo.FindByID(context.Background(), 404)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGorm_List(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewProductGorm(gdb)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE (name ILIKE $1 OR description ILIKE $2 OR category ILIKE $3) AND category IN ($4,$5)`)).
		WithArgs("%buku%", "%buku%", "%buku%", "ATK", "Buku").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE (name ILIKE $1 OR description ILIKE $2 OR category ILIKE $3) AND category IN ($4,$5) ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow(1, "Buku Tulis", "38 lembar", 5000.0, "Buku", nil, now, now))

	res, err := repo.List(context.Background(), repository.ProductQuery{
		PageQuery:  repository.PageQuery{Limit: 10, Offset: 0},
		Search:     "buku",
		Categories: []string{"ATK", "Buku"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 5000.0, res.Items[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGorm_List_OffsetPastEnd(t *testing.T) {
	gdb, mock := newMockGorm(t)
	offset := 9223372036854775790

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, offset).
		WillReturnRows(sqlmock.NewRows(productColumns))

	res, err := NewProductGorm(gdb).List(context.Background(), repository.ProductQuery{
		PageQuery: repository.PageQuery{Limit: 10, Offset: offset},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGorm_Update(t *testing.T) {
	t.Run("updates and reloads", func(t *testing.T) {
		gdb, mock := newMockGorm(t)
		repo := NewProductGorm(gdb)
		now := time.Now()
		price := 7500.0

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE "products"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows(productColumns).AddRow(2, "Pensil", "HB", price, "ATK", nil, now, now))

		p, err := repo.Update(context.Background(), 2, repository.ProductUpdate{Price: &price, ClearPhoto: true})
		require.NoError(t, err)
		assert.Equal(t, price, p.Price)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		gdb, mock := newMockGorm(t)
		name := "x"

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := NewProductGorm(gdb).Update(context.Background(), 9, repository.ProductUpdate{Name: &name})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductGorm_Delete(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewProductGorm(gdb)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE "products"."id" = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), 4))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), repository.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnError(errors.New("locked"))
	assert.EqualError(t, repo.Delete(context.Background(), 6), "locked")

	assert.NoError(t, mock.ExpectationsWereMet())
}

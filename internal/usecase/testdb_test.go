package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shop/internal/domain/model"
	infraRepo "shop/internal/infra/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テスト用DB（sqlite、テストごとに使い捨て）
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderLine{},
	))

	return db
}

type fixture struct {
	db          *gorm.DB
	productRepo *infraRepo.ProductGormRepository
	cartRepo    *infraRepo.CartLineGormRepository
	orderRepo   *infraRepo.OrderGormRepository
	lineRepo    *infraRepo.OrderLineGormRepository
	tx          *infraRepo.TxManagerGorm

	productUC *ProductUsecase
	cartUC    *CartUsecase
	orderUC   *OrderUsecase
	adminUC   *AdminOrderUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	productRepo := infraRepo.NewProductGormRepository(db)
	cartRepo := infraRepo.NewCartLineGormRepository(db)
	tx := infraRepo.NewTxManagerGorm(db)

	return &fixture{
		db:          db,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   infraRepo.NewOrderGormRepository(db),
		lineRepo:    infraRepo.NewOrderLineGormRepository(db),
		tx:          tx,
		productUC:   NewProductUsecase(productRepo),
		cartUC:      NewCartUsecase(cartRepo, productRepo),
		orderUC:     NewOrderUsecase(tx),
		adminUC:     NewAdminOrderUsecase(tx),
	}
}

// 商品をDBへ直接作る
func (f *fixture) createProduct(t *testing.T, code string, name string, price float64) model.Product {
	t.Helper()

	now := time.Now()
	p, err := f.productRepo.Create(context.Background(), model.Product{
		Name:      name,
		Code:      code,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return p
}

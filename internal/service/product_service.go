package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ProductDetail 目錄讀取用，帶當前生效價格與庫存加總
type ProductDetail struct {
	Product      *model.Product
	CurrentPrice *model.Price
	StockTotal   int
}

type IProductService interface {
	GetProduct(ctx context.Context, productID uint) (*ProductDetail, error)
	ListActiveProducts(ctx context.Context) ([]model.Product, error)
	GetStockTotal(ctx context.Context, productID uint) (int, error)
	AdjustStock(ctx context.Context, actor model.Actor, productID, warehouseID uint, newQuantity int) error
}

type ProductService struct {
	store      db.Store
	stockCache redis_repo.IStockCacheRepository
	logger     zerolog.Logger
	sf         singleflight.Group
}

func NewProductService(store db.Store, stockCache redis_repo.IStockCacheRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{
		store:      store,
		stockCache: stockCache,
		logger:     logger,
	}
}

func (p *ProductService) GetProduct(ctx context.Context, productID uint) (*ProductDetail, error) {
	product, err := p.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	total, err := p.GetStockTotal(ctx, productID)
	if err != nil {
		// 快取層故障退回DB上的denormalized欄位
		p.logger.Warn().Uint("product_id", productID).Err(err).Msg("stock cache read failed, using db value")
		total = product.StockCache
	}

	return &ProductDetail{
		Product:      product,
		CurrentPrice: ResolveCurrentPrice(product.Prices, "", time.Now()),
		StockTotal:   total,
	}, nil
}

func (p *ProductService) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	return p.store.ListActiveProducts(ctx)
}

// GetStockTotal 讀庫存加總
// read-through: redis miss就回DB的stock_cache欄位重建投影
// singleflight讓同商品的並發miss只打一次DB
func (p *ProductService) GetStockTotal(ctx context.Context, productID uint) (int, error) {
	total, err := p.stockCache.GetStockTotal(ctx, productID)
	if err == nil {
		return total, nil
	}
	if !errors.Is(err, redis_repo.ErrCacheMiss) {
		return 0, err
	}

	val, err, _ := p.sf.Do(fmt.Sprintf("stock_total:%d", productID), func() (interface{}, error) {
		product, err := p.store.GetProductByID(ctx, productID)
		if err != nil {
			return 0, err
		}
		if err := p.stockCache.SetStockTotal(ctx, productID, product.StockCache); err != nil {
			p.logger.Warn().Uint("product_id", productID).Err(err).Msg("rebuild stock cache failed")
		}
		return product.StockCache, nil
	})
	if err != nil {
		return 0, err
	}
	return val.(int), nil
}

// AdjustStock 盤點工具覆寫某倉庫數量，同transaction重算stock_cache
func (p *ProductService) AdjustStock(ctx context.Context, actor model.Actor, productID, warehouseID uint, newQuantity int) error {
	if !actor.IsStaff {
		return apperr.New(apperr.UnauthorizedCode, "staff only")
	}

	err := p.store.ExecTx(ctx, func(s db.Store) error {
		return s.AdjustStock(ctx, productID, warehouseID, newQuantity)
	})
	if err != nil {
		return err
	}

	if err := p.stockCache.DeleteStockTotal(ctx, productID); err != nil {
		p.logger.Warn().Uint("product_id", productID).Err(err).Msg("invalidate stock cache failed")
	}
	return nil
}

var _ IProductService = (*ProductService)(nil)

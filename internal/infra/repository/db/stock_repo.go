package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepo 庫存帳本
// 數量異動只能走這裡，而且要在Store.ExecTx的transaction內
// 每次異動後在同一個transaction重算products.stock_cache
type StockRepo struct {
	db *DbDao
}

func NewStockRepo(db *DbDao) *StockRepo {
	return &StockRepo{db: db}
}

func (s *StockRepo) CreateWarehouse(ctx context.Context, warehouse *model.Warehouse) error {
	return translateDBErr(s.db.WithContext(ctx).Create(warehouse).Error)
}

func (s *StockRepo) CreateStock(ctx context.Context, stock *model.Stock) error {
	return translateDBErr(s.db.WithContext(ctx).Create(stock).Error)
}

func (s *StockRepo) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	err := s.db.WithContext(ctx).Order("warehouse_id").Find(&warehouses).Error
	return warehouses, translateDBErr(err)
}

func (s *StockRepo) GetStocksByProduct(ctx context.Context, productID uint) ([]model.Stock, error) {
	var stocks []model.Stock
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id").
		Find(&stocks).Error
	return stocks, translateDBErr(err)
}

// Reserve - 扣庫存
// 先SELECT ... FOR UPDATE鎖住候選列再讀數量，兩個並發checkout會在這裡序列化，
// 第二個讀到的是扣減後的數量，不會同時超賣
// 未指定倉庫時選warehouse_id最小且單列足量的那筆，不跨倉拆單
// 數量不足回傳InsufficientStockError且不做任何異動
func (s *StockRepo) Reserve(ctx context.Context, productID uint, warehouseID *uint, quantity int) (*model.Reservation, error) {
	if quantity <= 0 {
		return nil, apperr.New(apperr.InvalidArgumentCode, "reserve quantity must be positive")
	}

	query := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Order("warehouse_id")
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var stocks []model.Stock
	if err := query.Find(&stocks).Error; err != nil {
		return nil, translateDBErr(err)
	}

	best := 0
	for _, stock := range stocks {
		if stock.Quantity > best {
			best = stock.Quantity
		}
		if stock.Quantity < quantity {
			continue
		}
		err := s.db.WithContext(ctx).Model(&model.Stock{}).
			Where("stock_id = ?", stock.StockID).
			Update("quantity", gorm.Expr("quantity - ?", quantity)).Error
		if err != nil {
			return nil, translateDBErr(err)
		}
		if _, err := s.RecomputeStockCache(ctx, productID); err != nil {
			return nil, err
		}
		return &model.Reservation{
			ProductID:   productID,
			WarehouseID: stock.WarehouseID,
			Quantity:    quantity,
		}, nil
	}

	// best是單列最大可用量，沒有拆單，所以不足量以單列計
	return nil, &apperr.InsufficientStockError{
		ProductID: productID,
		Requested: quantity,
		Available: best,
	}
}

// Release - 回補庫存，Reserve的反向操作
// 不檢查上限，永遠成功；倉庫列不存在就補建一筆
func (s *StockRepo) Release(ctx context.Context, productID, warehouseID uint, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.InvalidArgumentCode, "release quantity must be positive")
	}

	res := s.db.WithContext(ctx).Model(&model.Stock{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return translateDBErr(res.Error)
	}
	if res.RowsAffected == 0 {
		stock := model.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: quantity}
		if err := s.db.WithContext(ctx).Create(&stock).Error; err != nil {
			return translateDBErr(err)
		}
	}

	_, err := s.RecomputeStockCache(ctx, productID)
	return err
}

// AdjustStock - 盤點工具直接覆寫某倉庫數量
func (s *StockRepo) AdjustStock(ctx context.Context, productID, warehouseID uint, newQuantity int) error {
	if newQuantity < 0 {
		return apperr.New(apperr.InvalidArgumentCode, "stock quantity cannot be negative")
	}

	res := s.db.WithContext(ctx).Model(&model.Stock{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Update("quantity", newQuantity)
	if res.Error != nil {
		return translateDBErr(res.Error)
	}
	if res.RowsAffected == 0 {
		stock := model.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: newQuantity}
		if err := s.db.WithContext(ctx).Create(&stock).Error; err != nil {
			return translateDBErr(err)
		}
	}

	_, err := s.RecomputeStockCache(ctx, productID)
	return err
}

// RecomputeStockCache - 重算商品的denormalized庫存加總
// 快取只服務讀多的列表頁，stocks列永遠是真相來源
func (s *StockRepo) RecomputeStockCache(ctx context.Context, productID uint) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Model(&model.Stock{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, translateDBErr(err)
	}

	err = s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", productID).
		Update("stock_cache", total).Error
	if err != nil {
		return 0, translateDBErr(err)
	}
	return total, nil
}

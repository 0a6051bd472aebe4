package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單，連同明細一起寫入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return translateDBErr(s.db.WithContext(ctx).Create(order).Error)
}

// Read - 根據ID查詢訂單，明細依寫入順序排列
func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_id") }).
		Preload("OrderItems.Product").
		Preload("Address").
		First(&order, "order_id = ?", id).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	return &order, nil
}

// Read - 鎖訂單列，生命週期操作用
// 狀態檢查與轉換之間不允許別的transaction插進來
func (s *OrderRepo) GetOrderByIDForUpdate(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "order_id = ?", id).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	err = s.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("order_item_id").
		Find(&order.OrderItems).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	return &order, nil
}

// Read - 用戶訂單列表，新的在前
func (s *OrderRepo) ListOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_id") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translateDBErr(err)
}

// Read - 查詢所有訂單，管理端用
func (s *OrderRepo) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_id") }).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translateDBErr(err)
}

// Update - 更新訂單狀態
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return translateDBErr(s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", id).
		Update("status", status).Error)
}

// Update - 逐欄位更新訂單明細
// 可寫欄位只有quantity與其衍生的total_price，價格快照不可變
func (s *OrderRepo) UpdateOrderItemQuantity(ctx context.Context, item *model.OrderItem) error {
	return translateDBErr(s.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("order_item_id = ?", item.OrderItemID).
		Updates(map[string]interface{}{
			"quantity":    item.Quantity,
			"total_price": item.TotalPrice,
		}).Error)
}

// RecalcOrderSum - 重算order_sum並寫回
// 冪等，明細每次異動後在同一個transaction內呼叫
func (s *OrderRepo) RecalcOrderSum(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Decimal{}, translateDBErr(err)
	}

	err = s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("order_sum", total).Error
	if err != nil {
		return decimal.Decimal{}, translateDBErr(err)
	}
	return total, nil
}

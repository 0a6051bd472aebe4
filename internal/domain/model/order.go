package model

import (
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodSbp  PaymentMethod = "sbp"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodSbp:
		return true
	}
	return false
}

// 狀態機: new → confirmed → shipped → delivered
// cancelled 只能從 new / confirmed 進入，shipped之後走退貨流程，不在此處理
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal delivered與cancelled之後不再有任何轉換
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	OrderID       string           `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	UserID        uint             `gorm:"not null;index" json:"user_id"`
	AddressID     *uint            `gorm:"null" json:"address_id"` // 地址可被獨立刪除，故可為空
	Address       *DeliveryAddress `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	PaymentMethod PaymentMethod    `gorm:"not null;type:varchar(20);default:'cash'" json:"payment_method"`
	Status        OrderStatus      `gorm:"not null;type:varchar(20);default:'new'" json:"status"`
	OrderSum      decimal.Decimal  `gorm:"not null;type:decimal(12,2)" json:"order_sum"`
	OrderItems    []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	BaseModel
}

// SumItems 由目前明細計算訂單總額，order_sum永遠要等於這個值
func (o *Order) SumItems() decimal.Decimal {
	total := decimal.NewFromInt(0)
	for _, item := range o.OrderItems {
		total = total.Add(item.TotalPrice)
	}
	return total
}

type OrderItem struct {
	OrderItemID  uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID      string          `gorm:"not null;index;type:varchar(255)" json:"order_id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	WarehouseID  *uint           `gorm:"null" json:"warehouse_id"` // 實際扣庫存的倉庫
	PricePerUnit decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"price_per_unit"` // 下單當下快照，之後不再重算
	Quantity     int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalPrice   decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total_price"`
	BaseModel
}

type DeliveryAddress struct {
	AddressID uint   `gorm:"primaryKey" json:"address_id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	City      string `gorm:"not null;type:varchar(100)" json:"city"`
	Street    string `gorm:"not null;type:varchar(255)" json:"street"`
	House     string `gorm:"not null;type:varchar(20)" json:"house"`
	Apartment string `gorm:"type:varchar(20)" json:"apartment"`
	Comment   string `gorm:"type:text" json:"comment"`
	BaseModel
}

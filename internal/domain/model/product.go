package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID  uint            `gorm:"primaryKey" json:"product_id"`
	Sku        string          `gorm:"not null;type:varchar(100);unique" json:"sku"`
	Name       string          `gorm:"not null;type:varchar(255)" json:"name"`
	Unit       string          `gorm:"not null;type:varchar(20);default:'pcs'" json:"unit"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	StockCache int             `gorm:"not null;default:0" json:"stock_cache"` // 所有倉庫庫存加總的快取欄位，真相來源是stocks
	Prices     []Price         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
	Stocks     []Stock         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"stocks,omitempty"`
	BaseModel
}

type Warehouse struct {
	WarehouseID uint   `gorm:"primaryKey" json:"warehouse_id"`
	Name        string `gorm:"not null;type:varchar(255)" json:"name"`
	BaseModel
}

// Stock (product, warehouse) 唯一一筆，數量只透過StockRepo異動
type Stock struct {
	StockID     uint `gorm:"primaryKey" json:"stock_id"`
	ProductID   uint `gorm:"not null;uniqueIndex:idx_product_warehouse" json:"product_id"`
	WarehouseID uint `gorm:"not null;uniqueIndex:idx_product_warehouse" json:"warehouse_id"`
	Quantity    int  `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	BaseModel
}

type PriceType struct {
	PriceTypeID uint   `gorm:"primaryKey" json:"price_type_id"`
	Code        string `gorm:"not null;type:varchar(50);unique" json:"code"`
	Name        string `gorm:"not null;type:varchar(100)" json:"name"`
	BaseModel
}

// Price 時間區間價格，同商品同類型允許多筆，由PriceResolver決定當前生效那筆
type Price struct {
	PriceID     uint            `gorm:"primaryKey" json:"price_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	PriceTypeID uint            `gorm:"not null" json:"price_type_id"`
	PriceType   *PriceType      `gorm:"foreignKey:PriceTypeID" json:"price_type,omitempty"`
	Value       decimal.Decimal `gorm:"not null;type:decimal(12,2);check:value > 0" json:"value"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     *time.Time      `gorm:"null;check:end_date IS NULL OR end_date > start_date" json:"end_date"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	Priority    int             `gorm:"not null;default:0" json:"priority"`
	BaseModel
}

// ActiveAt 此價格在now是否落在生效區間
func (p *Price) ActiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate.After(now) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(now) {
		return false
	}
	return true
}

// Reservation 一次成功扣庫存的結果，記錄實際扣到哪個倉庫
type Reservation struct {
	ProductID   uint
	WarehouseID uint
	Quantity    int
}

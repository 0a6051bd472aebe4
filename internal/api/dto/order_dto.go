package dto

import (
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
)

type AddressDTO struct {
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

type LineRequestDTO struct {
	ProductID   uint  `json:"product_id"`
	Quantity    int   `json:"quantity"`
	WarehouseID *uint `json:"warehouse_id,omitempty"`
}

type CreateOrderDTO struct {
	PaymentMethod string           `json:"payment_method"`
	AddressID     *uint            `json:"address_id,omitempty"`
	Address       *AddressDTO      `json:"address,omitempty"`
	Items         []LineRequestDTO `json:"items"`
}

type OrderItemDTO struct {
	OrderItemID  uint   `json:"order_item_id"`
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	WarehouseID  *uint  `json:"warehouse_id,omitempty"`
	PricePerUnit string `json:"price_per_unit"`
	Quantity     int    `json:"quantity"`
	TotalPrice   string `json:"total_price"`
}

type OrderDTO struct {
	OrderID       string         `json:"order_id"`
	UserID        uint           `json:"user_id"`
	AddressID     *uint          `json:"address_id,omitempty"`
	PaymentMethod string         `json:"payment_method"`
	Status        string         `json:"status"`
	OrderSum      string         `json:"order_sum"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

type RepeatOrderResponse struct {
	Order   OrderDTO `json:"order"`
	Skipped []string `json:"skipped"`
}

type UpdateOrderItemDTO struct {
	Quantity int `json:"quantity"`
}

type BulkAdvanceDTO struct {
	OrderIDs []string `json:"order_ids"`
}

type BulkAdvanceResultDTO struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

type AdjustStockDTO struct {
	WarehouseID uint `json:"warehouse_id"`
	Quantity    int  `json:"quantity"`
}

type ProductDTO struct {
	ProductID    uint   `json:"product_id"`
	Sku          string `json:"sku"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	IsActive     bool   `json:"is_active"`
	StockTotal   int    `json:"stock_total"`
	CurrentPrice string `json:"current_price,omitempty"`
}

func ConvertOrderToDTO(order *model.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		d := OrderItemDTO{
			OrderItemID:  item.OrderItemID,
			ProductID:    item.ProductID,
			WarehouseID:  item.WarehouseID,
			PricePerUnit: item.PricePerUnit.StringFixed(2),
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice.StringFixed(2),
		}
		if item.Product != nil {
			d.ProductName = item.Product.Name
		}
		items = append(items, d)
	}
	return OrderDTO{
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		AddressID:     order.AddressID,
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		OrderSum:      order.OrderSum.StringFixed(2),
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}

func ConvertProductDetailToDTO(detail *service.ProductDetail) ProductDTO {
	d := ProductDTO{
		ProductID:  detail.Product.ProductID,
		Sku:        detail.Product.Sku,
		Name:       detail.Product.Name,
		Unit:       detail.Product.Unit,
		IsActive:   detail.Product.IsActive,
		StockTotal: detail.StockTotal,
	}
	if detail.CurrentPrice != nil {
		d.CurrentPrice = detail.CurrentPrice.Value.StringFixed(2)
	}
	return d
}

// ToServiceRequest DTO轉service層請求
func (d *CreateOrderDTO) ToServiceRequest() service.CheckoutRequest {
	req := service.CheckoutRequest{
		PaymentMethod: model.PaymentMethod(d.PaymentMethod),
		AddressID:     d.AddressID,
	}
	if d.Address != nil {
		req.Address = &service.AddressInput{
			City:      d.Address.City,
			Street:    d.Address.Street,
			House:     d.Address.House,
			Apartment: d.Address.Apartment,
			Comment:   d.Address.Comment,
		}
	}
	for _, item := range d.Items {
		req.Lines = append(req.Lines, service.LineRequest{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			WarehouseID: item.WarehouseID,
		})
	}
	return req
}

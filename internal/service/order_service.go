package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/domain/model/event"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LineRequest checkout的單一需求行
type LineRequest struct {
	ProductID   uint
	Quantity    int
	WarehouseID *uint
}

// AddressInput inline建立地址用的欄位
type AddressInput struct {
	City      string
	Street    string
	House     string
	Apartment string
	Comment   string
}

// CheckoutRequest AddressID與Address擇一
type CheckoutRequest struct {
	PaymentMethod model.PaymentMethod
	AddressID     *uint
	Address       *AddressInput
	Lines         []LineRequest
}

// RepeatResult Skipped列出因停售、無價格或庫存不足被跳過的商品
type RepeatResult struct {
	Order   *model.Order
	Skipped []string
}

type IOrderService interface {
	CreateOrder(ctx context.Context, actor model.Actor, req CheckoutRequest) (*model.Order, error)
	GetOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Actor, all bool) ([]model.Order, error)
	Cancel(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	Repeat(ctx context.Context, actor model.Actor, orderID string) (*RepeatResult, error)
	Confirm(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	MarkShipped(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	MarkDelivered(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	AdvanceOrders(ctx context.Context, actor model.Actor, orderIDs []string, to model.OrderStatus) map[string]error
	UpdateOrderItemQuantity(ctx context.Context, actor model.Actor, orderID string, orderItemID uint, quantity int) (*model.Order, error)
	CreateAddress(ctx context.Context, actor model.Actor, input AddressInput) (*model.DeliveryAddress, error)
	ListAddresses(ctx context.Context, actor model.Actor) ([]model.DeliveryAddress, error)
}

type OrderService struct {
	store      db.Store
	stockCache redis_repo.IStockCacheRepository
	producer   producer.IOrderEventProducer
	logger     zerolog.Logger
	maxRetry   int
}

func NewOrderService(
	store db.Store,
	stockCache redis_repo.IStockCacheRepository,
	eventProducer producer.IOrderEventProducer,
	logger zerolog.Logger,
	maxRetry int,
) *OrderService {
	if maxRetry <= 0 {
		maxRetry = 3
	}
	return &OrderService{
		store:      store,
		stockCache: stockCache,
		producer:   eventProducer,
		logger:     logger,
		maxRetry:   maxRetry,
	}
}

func newOrderID() string {
	return "ORD-" + uuid.New().String()
}

// retryOnContention 鎖競爭逾時重試整個workflow，不重試單一步驟
func (o *OrderService) retryOnContention(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < o.maxRetry; attempt++ {
		err = fn()
		if err == nil || !apperr.IsCode(err, apperr.ContentionCode) {
			return err
		}
		o.logger.Warn().Int("attempt", attempt+1).Err(err).Msg("contention, retrying workflow")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return err
}

// invalidateStockCache commit之後讓redis投影失效，下次讀取回DB重建
// 失敗只記log，快取帶TTL會自癒
func (o *OrderService) invalidateStockCache(ctx context.Context, productIDs []uint) {
	for _, id := range productIDs {
		if err := o.stockCache.DeleteStockTotal(ctx, id); err != nil {
			o.logger.Warn().Uint("product_id", id).Err(err).Msg("invalidate stock cache failed")
		}
	}
}

// publishEvent commit之後發佈，失敗不rollback訂單
func (o *OrderService) publishEvent(ctx context.Context, evtType event.EventType, order *model.Order, fromStatus model.OrderStatus) {
	evt := &event.OrderEvent{
		EventID:    uuid.New().String(),
		EventType:  evtType,
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		OrderSum:   order.OrderSum,
		FromStatus: string(fromStatus),
		ToStatus:   string(order.Status),
		OccurredAt: time.Now(),
	}
	if err := o.producer.ProduceOrderEvent(ctx, evt); err != nil {
		o.logger.Error().Str("order_id", order.OrderID).Str("event", string(evtType)).
			Err(err).Msg("publish order event failed")
	}
}

// CreateOrder checkout workflow，整包atomic
// 1. 驗證payment method 2. 取得或建立地址 3. 逐行解析商品/價格並扣庫存
// 4. 寫入訂單與明細 5. 重算order_sum
// 任何一行失敗整包rollback，不留部分扣庫存的半套訂單 (fail-fast)
func (o *OrderService) CreateOrder(ctx context.Context, actor model.Actor, req CheckoutRequest) (*model.Order, error) {
	if !req.PaymentMethod.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgumentCode, "unknown payment method %q", req.PaymentMethod)
	}
	if len(req.Lines) == 0 {
		return nil, apperr.New(apperr.InvalidArgumentCode, "order has no lines")
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, apperr.Newf(apperr.InvalidArgumentCode, "quantity must be positive for product %d", line.ProductID)
		}
	}

	var created *model.Order
	var touched []uint

	err := o.retryOnContention(ctx, func() error {
		touched = touched[:0]
		return o.store.ExecTx(ctx, func(s db.Store) error {
			address, err := o.resolveAddress(ctx, s, actor, req)
			if err != nil {
				return err
			}

			order := &model.Order{
				OrderID:       newOrderID(),
				UserID:        actor.UserID,
				AddressID:     &address.AddressID,
				PaymentMethod: req.PaymentMethod,
				Status:        model.OrderStatusNew,
				OrderSum:      decimal.NewFromInt(0),
			}

			now := time.Now()
			for _, line := range req.Lines {
				item, err := o.buildLine(ctx, s, line, now)
				if err != nil {
					return err
				}
				order.OrderItems = append(order.OrderItems, *item)
				touched = append(touched, line.ProductID)
			}

			order.OrderSum = order.SumItems()
			if err := s.CreateOrder(ctx, order); err != nil {
				return err
			}
			// 明細寫入後在同一個transaction內重算，取代隱式的post-save hook
			total, err := s.RecalcOrderSum(ctx, order.OrderID)
			if err != nil {
				return err
			}
			order.OrderSum = total

			created = order
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	o.invalidateStockCache(ctx, touched)
	o.publishEvent(ctx, event.OrderCreatedEventName, created, "")
	o.logger.Info().Str("order_id", created.OrderID).Uint("user_id", actor.UserID).
		Str("order_sum", created.OrderSum.String()).Msg("order created")
	return created, nil
}

// buildLine 解析單一需求行: 商品須上架、須有現價，然後扣庫存並快照單價
func (o *OrderService) buildLine(ctx context.Context, s db.Store, line LineRequest, now time.Time) (*model.OrderItem, error) {
	product, err := s.GetProductByIDForUpdate(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperr.Newf(apperr.InvalidArgumentCode, "product %q is not active", product.Name)
	}

	price := ResolveCurrentPrice(product.Prices, "", now)
	if price == nil {
		return nil, apperr.Newf(apperr.InvalidArgumentCode, "product %q has no price", product.Name)
	}

	reservation, err := s.Reserve(ctx, product.ProductID, line.WarehouseID, line.Quantity)
	if err != nil {
		var insErr *apperr.InsufficientStockError
		if errors.As(err, &insErr) {
			insErr.ProductName = product.Name
			return nil, insErr.AppErr()
		}
		return nil, err
	}

	return &model.OrderItem{
		ProductID:    product.ProductID,
		WarehouseID:  &reservation.WarehouseID,
		PricePerUnit: price.Value,
		Quantity:     line.Quantity,
		TotalPrice:   price.Value.Mul(decimal.NewFromInt(int64(line.Quantity))),
	}, nil
}

func (o *OrderService) resolveAddress(ctx context.Context, s db.Store, actor model.Actor, req CheckoutRequest) (*model.DeliveryAddress, error) {
	switch {
	case req.AddressID != nil:
		address, err := s.GetAddressByID(ctx, *req.AddressID)
		if err != nil {
			return nil, err
		}
		if address.UserID != actor.UserID {
			return nil, apperr.New(apperr.NotFoundCode, "address not found")
		}
		return address, nil
	case req.Address != nil:
		address := &model.DeliveryAddress{
			UserID:    actor.UserID,
			City:      req.Address.City,
			Street:    req.Address.Street,
			House:     req.Address.House,
			Apartment: req.Address.Apartment,
			Comment:   req.Address.Comment,
		}
		if address.City == "" || address.Street == "" || address.House == "" {
			return nil, apperr.New(apperr.InvalidArgumentCode, "address requires city, street and house")
		}
		if err := s.CreateAddress(ctx, address); err != nil {
			return nil, err
		}
		return address, nil
	default:
		return nil, apperr.New(apperr.InvalidArgumentCode, "delivery address required")
	}
}

func (o *OrderService) GetOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := o.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(order.UserID) {
		return nil, apperr.New(apperr.UnauthorizedCode, "not your order")
	}
	return order, nil
}

func (o *OrderService) ListOrders(ctx context.Context, actor model.Actor, all bool) ([]model.Order, error) {
	if all {
		if !actor.IsStaff {
			return nil, apperr.New(apperr.UnauthorizedCode, "staff only")
		}
		return o.store.ListAllOrders(ctx)
	}
	return o.store.ListOrdersByUserID(ctx, actor.UserID)
}

// Cancel 取消訂單，逐行回補庫存
// 只允許new/confirmed；已取消或已出貨之後的訂單拒絕且不做任何異動，
// 所以重複cancel不會重複回補
func (o *OrderService) Cancel(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	var cancelled *model.Order
	var fromStatus model.OrderStatus
	var touched []uint

	err := o.retryOnContention(ctx, func() error {
		touched = touched[:0]
		return o.store.ExecTx(ctx, func(s db.Store) error {
			order, err := s.GetOrderByIDForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if !actor.CanActOn(order.UserID) {
				return apperr.New(apperr.UnauthorizedCode, "not your order")
			}
			if !order.Status.CanTransition(model.OrderStatusCancelled) {
				return apperr.Newf(apperr.FailedPreconditionCode,
					"cannot cancel order in status %q", order.Status)
			}
			fromStatus = order.Status

			for _, item := range order.OrderItems {
				warehouseID, err := o.releaseTarget(ctx, s, &item)
				if err != nil {
					return err
				}
				if warehouseID == nil {
					continue
				}
				if err := s.Release(ctx, item.ProductID, *warehouseID, item.Quantity); err != nil {
					return err
				}
				touched = append(touched, item.ProductID)
			}

			if err := s.UpdateOrderStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
				return err
			}
			order.Status = model.OrderStatusCancelled
			cancelled = order
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	o.invalidateStockCache(ctx, touched)
	o.publishEvent(ctx, event.OrderCancelledEventName, cancelled, fromStatus)
	return cancelled, nil
}

// releaseTarget 決定回補到哪個倉庫
// 明細記錄了當初扣庫存的倉庫就用它；舊資料沒記錄時回補到該商品最小id的庫存列，
// 連庫存列都沒有就補到最小id的倉庫 (Release會自行建列)，回補永遠會發生，
// 只有整個系統一個倉庫都沒有的退化情況才跳過
func (o *OrderService) releaseTarget(ctx context.Context, s db.Store, item *model.OrderItem) (*uint, error) {
	if item.WarehouseID != nil {
		return item.WarehouseID, nil
	}
	stocks, err := s.GetStocksByProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if len(stocks) > 0 {
		return &stocks[0].WarehouseID, nil
	}
	warehouses, err := s.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	if len(warehouses) == 0 {
		return nil, nil
	}
	return &warehouses[0].WarehouseID, nil
}

// Repeat 以舊訂單為範本開新訂單
// 逐行重新解析價格與庫存，停售、無價格或不足量的行跳過而不是整單失敗
// 全部被跳過時不留空訂單，整包rollback回傳錯誤
func (o *OrderService) Repeat(ctx context.Context, actor model.Actor, orderID string) (*RepeatResult, error) {
	var result *RepeatResult
	var touched []uint

	err := o.retryOnContention(ctx, func() error {
		touched = touched[:0]
		return o.store.ExecTx(ctx, func(s db.Store) error {
			original, err := s.GetOrderByID(ctx, orderID)
			if err != nil {
				return err
			}
			if !actor.CanActOn(original.UserID) {
				return apperr.New(apperr.UnauthorizedCode, "not your order")
			}

			order := &model.Order{
				OrderID:       newOrderID(),
				UserID:        actor.UserID,
				AddressID:     original.AddressID,
				PaymentMethod: original.PaymentMethod,
				Status:        model.OrderStatusNew,
				OrderSum:      decimal.NewFromInt(0),
			}

			var skipped []string
			now := time.Now()
			for _, origItem := range original.OrderItems {
				product, err := s.GetProductByIDForUpdate(ctx, origItem.ProductID)
				if err != nil {
					if apperr.IsCode(err, apperr.NotFoundCode) {
						skipped = append(skipped, fmt.Sprintf("product %d (deleted)", origItem.ProductID))
						continue
					}
					return err
				}
				if !product.IsActive {
					skipped = append(skipped, product.Name)
					continue
				}
				price := ResolveCurrentPrice(product.Prices, "", now)
				if price == nil {
					skipped = append(skipped, fmt.Sprintf("%s (no price)", product.Name))
					continue
				}
				reservation, err := s.Reserve(ctx, product.ProductID, nil, origItem.Quantity)
				if err != nil {
					var insErr *apperr.InsufficientStockError
					if errors.As(err, &insErr) {
						skipped = append(skipped, fmt.Sprintf("%s (insufficient stock)", product.Name))
						continue
					}
					return err
				}
				order.OrderItems = append(order.OrderItems, model.OrderItem{
					ProductID:    product.ProductID,
					WarehouseID:  &reservation.WarehouseID,
					PricePerUnit: price.Value,
					Quantity:     origItem.Quantity,
					TotalPrice:   price.Value.Mul(decimal.NewFromInt(int64(origItem.Quantity))),
				})
				touched = append(touched, product.ProductID)
			}

			if len(order.OrderItems) == 0 {
				return apperr.New(apperr.FailedPreconditionCode, "no lines could be repeated")
			}

			order.OrderSum = order.SumItems()
			if err := s.CreateOrder(ctx, order); err != nil {
				return err
			}
			total, err := s.RecalcOrderSum(ctx, order.OrderID)
			if err != nil {
				return err
			}
			order.OrderSum = total

			result = &RepeatResult{Order: order, Skipped: skipped}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	o.invalidateStockCache(ctx, touched)
	o.publishEvent(ctx, event.OrderRepeatedEventName, result.Order, "")
	return result, nil
}

// Confirm 確認訂單
// 庫存在checkout時已經扣過(eager reservation)，這裡是純狀態轉換
func (o *OrderService) Confirm(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	return o.advance(ctx, actor, orderID, model.OrderStatusConfirmed, event.OrderConfirmedEventName)
}

func (o *OrderService) MarkShipped(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	return o.advance(ctx, actor, orderID, model.OrderStatusShipped, event.OrderShippedEventName)
}

func (o *OrderService) MarkDelivered(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	return o.advance(ctx, actor, orderID, model.OrderStatusDelivered, event.OrderDeliveredEventName)
}

// advance staff-only狀態推進，不合法的轉換直接拒絕，不會被改寫成別的狀態
func (o *OrderService) advance(ctx context.Context, actor model.Actor, orderID string, to model.OrderStatus, evtType event.EventType) (*model.Order, error) {
	if !actor.IsStaff {
		return nil, apperr.New(apperr.UnauthorizedCode, "staff only")
	}

	var advanced *model.Order
	var fromStatus model.OrderStatus

	err := o.retryOnContention(ctx, func() error {
		return o.store.ExecTx(ctx, func(s db.Store) error {
			order, err := s.GetOrderByIDForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if !order.Status.CanTransition(to) {
				return apperr.Newf(apperr.FailedPreconditionCode,
					"cannot move order from %q to %q", order.Status, to)
			}
			if err := s.UpdateOrderStatus(ctx, orderID, to); err != nil {
				return err
			}
			fromStatus = order.Status
			order.Status = to
			advanced = order
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	o.publishEvent(ctx, evtType, advanced, fromStatus)
	return advanced, nil
}

// AdvanceOrders 批次狀態推進，每張訂單獨立transaction
// 只推進狀態機允許的訂單，其餘記錄錯誤，不影響別張
func (o *OrderService) AdvanceOrders(ctx context.Context, actor model.Actor, orderIDs []string, to model.OrderStatus) map[string]error {
	results := make(map[string]error, len(orderIDs))
	var evtType event.EventType
	switch to {
	case model.OrderStatusConfirmed:
		evtType = event.OrderConfirmedEventName
	case model.OrderStatusShipped:
		evtType = event.OrderShippedEventName
	case model.OrderStatusDelivered:
		evtType = event.OrderDeliveredEventName
	default:
		for _, id := range orderIDs {
			results[id] = apperr.Newf(apperr.InvalidArgumentCode, "unsupported bulk target status %q", to)
		}
		return results
	}

	for _, id := range orderIDs {
		_, err := o.advance(ctx, actor, id, to, evtType)
		results[id] = err
	}
	return results
}

// UpdateOrderItemQuantity staff修改new訂單的明細數量
// 可寫欄位只有quantity，價格快照不可變；庫存差額走帳本，總額同transaction重算
func (o *OrderService) UpdateOrderItemQuantity(ctx context.Context, actor model.Actor, orderID string, orderItemID uint, quantity int) (*model.Order, error) {
	if !actor.IsStaff {
		return nil, apperr.New(apperr.UnauthorizedCode, "staff only")
	}
	if quantity <= 0 {
		return nil, apperr.New(apperr.InvalidArgumentCode, "quantity must be positive")
	}

	var updated *model.Order
	var touched []uint

	err := o.retryOnContention(ctx, func() error {
		touched = touched[:0]
		return o.store.ExecTx(ctx, func(s db.Store) error {
			order, err := s.GetOrderByIDForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if order.Status != model.OrderStatusNew {
				return apperr.Newf(apperr.FailedPreconditionCode,
					"can only edit items of a new order, status is %q", order.Status)
			}

			var item *model.OrderItem
			for i := range order.OrderItems {
				if order.OrderItems[i].OrderItemID == orderItemID {
					item = &order.OrderItems[i]
					break
				}
			}
			if item == nil {
				return apperr.New(apperr.NotFoundCode, "order item not found")
			}

			delta := quantity - item.Quantity
			switch {
			case delta > 0:
				if _, err := s.Reserve(ctx, item.ProductID, item.WarehouseID, delta); err != nil {
					var insErr *apperr.InsufficientStockError
					if errors.As(err, &insErr) {
						return insErr.AppErr()
					}
					return err
				}
			case delta < 0:
				warehouseID, err := o.releaseTarget(ctx, s, item)
				if err != nil {
					return err
				}
				if warehouseID != nil {
					if err := s.Release(ctx, item.ProductID, *warehouseID, -delta); err != nil {
						return err
					}
				}
			}
			if delta != 0 {
				touched = append(touched, item.ProductID)
			}

			item.Quantity = quantity
			item.TotalPrice = item.PricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
			if err := s.UpdateOrderItemQuantity(ctx, item); err != nil {
				return err
			}
			total, err := s.RecalcOrderSum(ctx, orderID)
			if err != nil {
				return err
			}
			order.OrderSum = total
			updated = order
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	o.invalidateStockCache(ctx, touched)
	return updated, nil
}

func (o *OrderService) CreateAddress(ctx context.Context, actor model.Actor, input AddressInput) (*model.DeliveryAddress, error) {
	if input.City == "" || input.Street == "" || input.House == "" {
		return nil, apperr.New(apperr.InvalidArgumentCode, "address requires city, street and house")
	}
	address := &model.DeliveryAddress{
		UserID:    actor.UserID,
		City:      input.City,
		Street:    input.Street,
		House:     input.House,
		Apartment: input.Apartment,
		Comment:   input.Comment,
	}
	if err := o.store.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (o *OrderService) ListAddresses(ctx context.Context, actor model.Actor) ([]model.DeliveryAddress, error) {
	return o.store.ListAddressesByUserID(ctx, actor.UserID)
}

var _ IOrderService = (*OrderService)(nil)

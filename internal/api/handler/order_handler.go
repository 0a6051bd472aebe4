package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	m "github.com/RoyceAzure/lab/shop/internal/api/middleware"
	"github.com/RoyceAzure/lab/shop/internal/api/response"
	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		response.ErrorJSON(w, apperr.New(apperr.InvalidArgumentCode, "invalid request body"))
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), m.GetActor(r.Context()), createDTO.ToServiceRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, dto.ConvertOrderToDTO(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.GetOrder(r.Context(), m.GetActor(r.Context()), orderID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "1"

	orders, err := h.orderService.ListOrders(r.Context(), m.GetActor(r.Context()), all)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	result := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		result = append(result, dto.ConvertOrderToDTO(&orders[i]))
	}
	response.SuccessJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.Cancel(r.Context(), m.GetActor(r.Context()), orderID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

func (h *OrderHandler) RepeatOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	result, err := h.orderService.Repeat(r.Context(), m.GetActor(r.Context()), orderID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	skipped := result.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	response.SuccessJSON(w, http.StatusCreated, dto.RepeatOrderResponse{
		Order:   dto.ConvertOrderToDTO(result.Order),
		Skipped: skipped,
	})
}

func (h *OrderHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.orderService.Confirm)
}

func (h *OrderHandler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.orderService.MarkShipped)
}

func (h *OrderHandler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.orderService.MarkDelivered)
}

func (h *OrderHandler) advance(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)) {
	orderID := chi.URLParam(r, "id")

	order, err := fn(r.Context(), m.GetActor(r.Context()), orderID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

// BulkAdvance 批次推進狀態，目標狀態由路由決定
func (h *OrderHandler) BulkAdvance(to model.OrderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bulkDTO dto.BulkAdvanceDTO
		if err := json.NewDecoder(r.Body).Decode(&bulkDTO); err != nil {
			response.ErrorJSON(w, apperr.New(apperr.InvalidArgumentCode, "invalid request body"))
			return
		}
		if len(bulkDTO.OrderIDs) == 0 {
			response.ErrorJSON(w, apperr.New(apperr.InvalidArgumentCode, "order_ids required"))
			return
		}

		results := h.orderService.AdvanceOrders(r.Context(), m.GetActor(r.Context()), bulkDTO.OrderIDs, to)

		resp := dto.BulkAdvanceResultDTO{Failed: make(map[string]string)}
		for id, err := range results {
			if err != nil {
				resp.Failed[id] = err.Error()
			} else {
				resp.Succeeded = append(resp.Succeeded, id)
			}
		}
		response.SuccessJSON(w, http.StatusOK, resp)
	}
}

func (h *OrderHandler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	itemID, err := parseUintParam(r, "itemID")
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	var updateDTO dto.UpdateOrderItemDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		response.ErrorJSON(w, apperr.New(apperr.InvalidArgumentCode, "invalid request body"))
		return
	}

	order, err := h.orderService.UpdateOrderItemQuantity(r.Context(), m.GetActor(r.Context()),
		orderID, itemID, updateDTO.Quantity)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

func (h *OrderHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var addressDTO dto.AddressDTO
	if err := json.NewDecoder(r.Body).Decode(&addressDTO); err != nil {
		response.ErrorJSON(w, apperr.New(apperr.InvalidArgumentCode, "invalid request body"))
		return
	}

	address, err := h.orderService.CreateAddress(r.Context(), m.GetActor(r.Context()), service.AddressInput{
		City:      addressDTO.City,
		Street:    addressDTO.Street,
		House:     addressDTO.House,
		Apartment: addressDTO.Apartment,
		Comment:   addressDTO.Comment,
	})
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, address)
}

func (h *OrderHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.orderService.ListAddresses(r.Context(), m.GetActor(r.Context()))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, addresses)
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	m "github.com/RoyceAzure/lab/shop/internal/api/middleware"
	"github.com/RoyceAzure/lab/shop/internal/api/response"
	"github.com/RoyceAzure/lab/shop/internal/apperr"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	productService service.IProductService
}

func NewCatalogHandler(productService service.IProductService) *CatalogHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &CatalogHandler{productService: productService}
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	val, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.InvalidArgumentCode, "invalid %s %q", name, raw)
	}
	return uint(val), nil
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(r, "id")
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	detail, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, dto.ConvertProductDetailToDTO(detail))
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListActiveProducts(r.Context())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, products)
}

// AdjustStock 盤點工具直接覆寫庫存，staff only
func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(r, "id")
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	var adjustDTO dto.AdjustStockDTO
	if err := json.NewDecoder(r.Body).Decode(&adjustDTO); err != nil {
		response.ErrorJSON(w, apperr.New(apperr.InvalidArgumentCode, "invalid request body"))
		return
	}

	err = h.productService.AdjustStock(r.Context(), m.GetActor(r.Context()),
		productID, adjustDTO.WarehouseID, adjustDTO.Quantity)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, nil)
}

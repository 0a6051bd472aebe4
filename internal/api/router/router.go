package router

import (
	"github.com/RoyceAzure/lab/shop/internal/api"
	m "github.com/RoyceAzure/lab/shop/internal/api/middleware"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.ActorMiddleware)
	r.Use(m.LoggerMiddleware(logger))

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", server.OrderHandler.CreateOrder)
			r.Get("/", server.OrderHandler.ListOrders)
			r.Get("/{id}", server.OrderHandler.GetOrder)
			r.Post("/{id}/cancel", server.OrderHandler.CancelOrder)
			r.Post("/{id}/repeat", server.OrderHandler.RepeatOrder)
			// staff操作
			r.Post("/{id}/confirm", server.OrderHandler.ConfirmOrder)
			r.Post("/{id}/ship", server.OrderHandler.ShipOrder)
			r.Post("/{id}/deliver", server.OrderHandler.DeliverOrder)
			r.Patch("/{id}/items/{itemID}", server.OrderHandler.UpdateOrderItem)
			r.Post("/bulk/confirm", server.OrderHandler.BulkAdvance(model.OrderStatusConfirmed))
			r.Post("/bulk/ship", server.OrderHandler.BulkAdvance(model.OrderStatusShipped))
			r.Post("/bulk/deliver", server.OrderHandler.BulkAdvance(model.OrderStatusDelivered))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.CatalogHandler.ListProducts)
			r.Get("/{id}", server.CatalogHandler.GetProduct)
			r.Post("/{id}/stock", server.CatalogHandler.AdjustStock)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", server.OrderHandler.CreateAddress)
			r.Get("/", server.OrderHandler.ListAddresses)
		})
	})

	return r
}

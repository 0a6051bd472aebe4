package api

import "github.com/RoyceAzure/lab/shop/internal/api/handler"

type Server struct {
	OrderHandler   *handler.OrderHandler
	CatalogHandler *handler.CatalogHandler
}

func NewServer(
	orderHandler *handler.OrderHandler,
	catalogHandler *handler.CatalogHandler,
) *Server {
	return &Server{
		OrderHandler:   orderHandler,
		CatalogHandler: catalogHandler,
	}
}

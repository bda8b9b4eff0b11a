package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/events")

	r.Get("/", h.ListSales)
	r.Post("/refresh", h.Refresh)
	r.Get("/:ticketAddress/:id", h.GetSale)
	return nil
}

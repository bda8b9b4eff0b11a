package httphandler

import (
	"context"

	"github.com/gaze-network/ticket-storefront/modules/metadata/usecase"
	"github.com/gofiber/fiber/v2"
)

type Usecase interface {
	PinEventMetadata(ctx context.Context, req usecase.PinRequest) (*usecase.PinnedMetadata, error)
}

type HttpHandler struct {
	usecase Usecase
}

func New(usecase Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/events")

	r.Post("/metadata", h.PinMetadata)
	return nil
}

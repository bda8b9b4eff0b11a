package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gofiber/fiber/v2"
)

type refreshResult struct {
	Invalidated bool `json:"invalidated"`
}

// Refresh drops the cached listings so the next read observes the latest chain state.
func (h *HttpHandler) Refresh(ctx *fiber.Ctx) error {
	if err := h.usecase.Invalidate(ctx.UserContext()); err != nil {
		return errors.Wrap(err, "error during Invalidate")
	}
	return errors.WithStack(ctx.JSON(common.HttpResponse[refreshResult]{
		Result: &refreshResult{Invalidated: true},
	}))
}

package httphandler

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/modules/metadata/datagateway"
	"github.com/gaze-network/ticket-storefront/modules/metadata/usecase"
	"github.com/gofiber/fiber/v2"
)

type pinMetadataResponse = common.HttpResponse[usecase.PinnedMetadata]

func (h *HttpHandler) PinMetadata(ctx *fiber.Ctx) (err error) {
	req := usecase.PinRequest{
		EventName:   ctx.FormValue("eventName"),
		EventSymbol: ctx.FormValue("eventSymbol"),
	}

	// a missing icon is reported by the usecase
	if header, err := ctx.FormFile("icon"); err == nil {
		file, err := header.Open()
		if err != nil {
			return errors.Wrap(err, "can't open uploaded icon")
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return errors.Wrap(err, "can't read uploaded icon")
		}
		req.Icon = &datagateway.File{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Content:     content,
		}
	}

	pinned, err := h.usecase.PinEventMetadata(ctx.UserContext(), req)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(ctx.JSON(pinMetadataResponse{
		Result: pinned,
	}))
}

package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// StatusCode maps an error kind to its HTTP status. Unknown errors are 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.NotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.InvalidArgument), errors.Is(err, errs.Unsupported):
		return http.StatusBadRequest
	case errors.Is(err, errs.PreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, errs.Timeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, errs.Transport), errors.Is(err, errs.Rejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewHTTPErrorHandler renders errors as `{"error": "..."}`. Public errors expose their message;
// their status comes from the wrapped error kind, defaulting to 400.
func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			status := StatusCode(err)
			if status == http.StatusInternalServerError && !errors.Is(err, errs.InternalError) {
				status = http.StatusBadRequest
			}
			return errors.WithStack(ctx.Status(status).JSON(common.HttpResponse[any]{
				Error: lo.ToPtr(e.Message()),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(common.HttpResponse[any]{
				Error: lo.ToPtr(e.Message),
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		status := StatusCode(err)
		return errors.WithStack(ctx.Status(status).JSON(common.HttpResponse[any]{
			Error: lo.ToPtr(http.StatusText(status)),
		}))
	}
}

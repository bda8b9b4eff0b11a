// Package requestcontext copies per-request values (request id, client ip) from the fiber
// context into the user context, where handlers, usecases and the context logger can read them.
package requestcontext

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// Option derives the next user context from the request.
// Returning a *fiber.Error rejects the request with its status and message.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for _, opt := range opts {
			next, err := opt(ctx, c)
			if err != nil {
				return reject(ctx, c, err)
			}
			ctx = next
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func reject(ctx context.Context, c *fiber.Ctx, err error) error {
	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return errors.WithStack(c.Status(fErr.Code).JSON(common.HttpResponse[any]{Error: &fErr.Message}))
	}

	logger.ErrorContext(ctx, "Can't build request context",
		slogx.Error(err),
		slog.String("event", "requestcontext/error"),
	)
	msg := "internal server error"
	return errors.WithStack(c.Status(fiber.StatusInternalServerError).JSON(common.HttpResponse[any]{Error: &msg}))
}

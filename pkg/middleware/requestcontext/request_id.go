package requestcontext

import (
	"context"

	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type requestIDKey struct{}

// RequestID returns the request id stored by [WithRequestID], or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRequestID reuses the id set by the requestid middleware or the X-Request-ID header,
// or generates one. The id is echoed in the response and attached to the context logger.
func WithRequestID() Option {
	header, key := requestid.ConfigDefault.Header, requestid.ConfigDefault.ContextKey
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		id, _ := c.Locals(key).(string)
		if id == "" {
			id = c.Get(header, fiberutils.UUIDv4())
			c.Set(header, id)
			c.Locals(key, id)
		}
		ctx = context.WithValue(ctx, requestIDKey{}, id)
		return logger.WithContext(ctx, "request_id", id), nil
	}
}

// Package requestlogger logs one line per HTTP request served by the storefront API.
package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gaze-network/ticket-storefront/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	// Quiet drops successful requests; client errors are logged at warn and server errors at error.
	Quiet bool `mapstructure:"quiet"`

	// Headers adds the request headers, minus HiddenHeaders, to each line.
	Headers       bool     `mapstructure:"headers"`
	HiddenHeaders []string `mapstructure:"hidden_headers"`
}

func New(config Config) fiber.Handler {
	hidden := make(map[string]bool, len(config.HiddenHeaders))
	for _, h := range config.HiddenHeaders {
		hidden[strings.ToLower(strings.TrimSpace(h))] = true
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		// the error handler has not run yet, so a returned error decides the final status
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fErr *fiber.Error
			if errors.As(err, &fErr) {
				status = fErr.Code
			}
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case config.Quiet:
			return nil
		}

		ctx := c.UserContext()
		request := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", requestcontext.ClientIP(ctx)),
			slog.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			slog.String("content_type", c.Get(fiber.HeaderContentType)),
			slog.Int("length", len(c.Request().Body())),
		}
		if query := c.Request().URI().QueryString(); len(query) > 0 {
			request = append(request, slog.String("query", string(query)))
		}
		if config.Headers {
			var headers []any
			for k, v := range c.GetReqHeaders() {
				if !hidden[strings.ToLower(k)] {
					headers = append(headers, slog.Any(k, v))
				}
			}
			request = append(request, slog.Group("header", headers...))
		}

		logger.LogAttrs(ctx, level, "Request Completed",
			slog.String("event", "api_request"),
			slogx.Duration("latency", latency),
			slog.Group("request", request...),
			slog.Group("response",
				slog.Int("status", status),
				slog.Int("length", len(c.Response().Body())),
			),
			slogx.Error(err),
		)
		return errors.WithStack(err)
	}
}

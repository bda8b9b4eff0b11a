package cmd

import (
	"log/slog"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/core/constants"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/pkg/errorhandler"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gaze-network/ticket-storefront/pkg/middleware/requestcontext"
	"github.com/gaze-network/ticket-storefront/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// bodyLimit leaves room for the multipart envelope around the largest accepted icon.
const bodyLimit = 8 << 20

type healthResult struct {
	Version string         `json:"version"`
	Network common.Network `json:"network"`
	Modules []string       `json:"modules"`
}

func newServer(conf config.Config) (*fiber.App, error) {
	withClientIP, err := requestcontext.WithClientIP(conf.HTTPServer.RequestIP)
	if err != nil {
		return nil, errors.Wrap(err, "invalid http_server.requestip config")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Ticket Storefront",
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		BodyLimit:    bodyLimit,
	})
	app.
		Use(favicon.New()).
		Use(cors.New()).
		Use(requestid.New()).
		Use(requestcontext.New(requestcontext.WithRequestID(), withClientIP)).
		Use(requestlogger.New(conf.HTTPServer.Logger)).
		Use(fiberrecover.New(fiberrecover.Config{
			EnableStackTrace:  true,
			StackTraceHandler: logPanic,
		})).
		Use(compress.New())

	health := healthResult{
		Version: constants.Version,
		Network: conf.Network,
		Modules: conf.EnableModules,
	}
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.JSON(common.HttpResponse[healthResult]{Result: &health}))
	})
	return app, nil
}

func logPanic(c *fiber.Ctx, e any) {
	buf := make([]byte, 4<<10)
	buf = buf[:runtime.Stack(buf, false)]
	logger.ErrorContext(c.UserContext(), "Panic in HTTP handler",
		slogx.Any("panic", e),
		slog.String("stacktrace", string(buf)),
	)
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core"
	"github.com/gaze-network/ticket-storefront/core/evm"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/discovery"
	"github.com/gaze-network/ticket-storefront/modules/metadata"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Register Modules
var Modules = do.Package(
	do.LazyNamed("discovery", discovery.New),
	do.LazyNamed("metadata", metadata.New),
)

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the storefront API server",
		RunE:  runHandler,
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Int("port", 8080, "HTTP server port")
	flags.String("modules", "", "Enable specific modules to run. E.g. `discovery,metadata`")

	// Bind flags to configuration
	config.BindPFlag("http_server.port", flags.Lookup("port"))
	config.BindPFlag("enable_modules", flags.Lookup("modules"))

	return runCmd
}

const shutdownTimeout = 60 * time.Second

// startModules resolves each enabled module once; a module mounts its routes while being built.
func startModules(ctx context.Context, injector do.Injector, names []string) error {
	names = lo.Uniq(lo.FilterMap(names, func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	}))
	for _, name := range names {
		ctx := logger.WithContext(ctx, slogx.String("module", name))
		if _, err := do.InvokeNamed[core.Module](injector, name); err != nil {
			if errors.Is(err, do.ErrServiceNotFound) {
				return errors.Wrapf(errs.Unsupported, "module %q", name)
			}
			return errors.Wrapf(err, "can't init module %q", name)
		}
		logger.InfoContext(ctx, "Module started")
	}
	return nil
}

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Add logger context
	ctx = logger.WithContext(ctx, slogx.Stringer("network", conf.Network))

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize JSON-RPC client
	do.Provide(injector, func(i do.Injector) (*evm.Client, error) {
		conf := do.MustInvoke[config.Config](i)

		client, _, err := dialChain(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "can't connect to JSON-RPC endpoint")
		}
		return client, nil
	})

	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		return newServer(do.MustInvoke[config.Config](i))
	})

	if err := startModules(ctx, injector, conf.EnableModules); err != nil {
		return errors.WithStack(err)
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Ticket storefront started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:           "storefront",
	Long:          `Ticket storefront: discover on-chain ticket sales, buy tickets and create sales`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	var (
		configFile string
		envFile    string
	)

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g.  `./config.yaml`")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the configuration")
	flags.String("network", "sepolia", "network to connect to, E.g. `sepolia`")
	flags.String("rpc", "", "JSON-RPC endpoint, defaults to the public endpoint of the network")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))
	config.BindPFlag("rpc.url", flags.Lookup("rpc"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Environment variables already set take precedence over the dotenv file
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to load dotenv file", slogx.String("file", envFile), slogx.Error(err))
		}

		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewEventsCommand(),
		NewBuyCommand(),
		NewCreateCommand(),
		NewPinCommand(),
		NewGenerateKeypairCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", slogx.Error(err))
		os.Exit(1)
	}
}

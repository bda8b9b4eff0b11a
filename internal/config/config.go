package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/core/datasources"
	discoveryconfig "github.com/gaze-network/ticket-storefront/modules/discovery/config"
	metadataconfig "github.com/gaze-network/ticket-storefront/modules/metadata/config"
	purchaseconfig "github.com/gaze-network/ticket-storefront/modules/purchase/config"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/gaze-network/ticket-storefront/pkg/middleware/requestcontext"
	"github.com/gaze-network/ticket-storefront/pkg/middleware/requestlogger"
	"github.com/gaze-network/ticket-storefront/pkg/ttlcache"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit bool
	mu     sync.Mutex
	config = defaultConfig()
)

func defaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			Output: "text",
		},
		Network: common.NetworkSepolia,
		RPC: RPCConfig{
			Timeout: 30 * time.Second,
		},
		Wallet: WalletConfig{
			PrivateKeyFile: "./keys/priv.key",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
			Logger: requestlogger.Config{
				HiddenHeaders: []string{"Authorization", "Cookie"},
			},
		},
		EnableModules: []string{"discovery", "metadata"},
		Discovery: discoveryconfig.Config{
			WindowSize:  datasources.DefaultWindowSize,
			CacheTTL:    ttlcache.DefaultTTL,
			Cache:       discoveryconfig.CacheConfig{Backend: "memory"},
			APIHandlers: []string{"http"},
		},
		Purchase: purchaseconfig.Config{
			ConfirmationTimeout: 3 * time.Minute,
			WrapEnabled:         true,
		},
		Pinning: metadataconfig.Config{
			APIURL:      "https://api.pinata.cloud",
			MaxIconSize: 5 * 1024 * 1024,
			APIHandlers: []string{"http"},
		},
	}
}

type Config struct {
	Logger        logger.Config          `mapstructure:"logger"`
	Network       common.Network         `mapstructure:"network"`
	RPC           RPCConfig              `mapstructure:"rpc"`
	Wallet        WalletConfig           `mapstructure:"wallet"`
	HTTPServer    HTTPServerConfig       `mapstructure:"http_server"`
	EnableModules []string               `mapstructure:"enable_modules"`
	Discovery     discoveryconfig.Config `mapstructure:"discovery"`
	Purchase      purchaseconfig.Config  `mapstructure:"purchase"`
	Pinning       metadataconfig.Config  `mapstructure:"pinning"`
}

type RPCConfig struct {
	URL     string        `mapstructure:"url"` // empty means the public endpoint of the network
	Timeout time.Duration `mapstructure:"timeout"`
}

type WalletConfig struct {
	PrivateKeyFile string `mapstructure:"private_key_file"`
	PrivateKey     string `mapstructure:"private_key"` // hex, takes precedence over the key file
}

type HTTPServerConfig struct {
	Port      int                           `mapstructure:"port"`
	Logger    requestlogger.Config          `mapstructure:"logger"`
	RequestIP requestcontext.ClientIPConfig `mapstructure:"requestip"`
}

// Parse parse the configuration from environment variables
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

// Load returns the loaded configuration
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	Viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

// SetDefault sets the default value for this key.
// SetDefault is case-insensitive for a key.
// Default only used when no value is provided by the user via flag, config or ENV.
func SetDefault(key string, value any) { viper.SetDefault(key, value) }

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// keys must be known to viper for env-only values to be unmarshalled
	setDefaults(defaultConfig())
	_ = viper.BindEnv("pinning.jwt", "PINNING_JWT", "PINATA_JWT")
	_ = viper.BindEnv("wallet.private_key", "WALLET_PRIVATE_KEY", "PRIVATE_KEY")

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}

func setDefaults(c *Config) {
	viper.SetDefault("logger.output", c.Logger.Output)
	viper.SetDefault("logger.debug", c.Logger.Debug)
	viper.SetDefault("network", c.Network)
	viper.SetDefault("rpc.url", c.RPC.URL)
	viper.SetDefault("rpc.timeout", c.RPC.Timeout)
	viper.SetDefault("wallet.private_key_file", c.Wallet.PrivateKeyFile)
	viper.SetDefault("http_server.port", c.HTTPServer.Port)
	viper.SetDefault("enable_modules", c.EnableModules)
	viper.SetDefault("discovery.factory_address", c.Discovery.FactoryAddress)
	viper.SetDefault("discovery.genesis_block", c.Discovery.GenesisBlock)
	viper.SetDefault("discovery.window_size", c.Discovery.WindowSize)
	viper.SetDefault("discovery.cache_ttl", c.Discovery.CacheTTL)
	viper.SetDefault("discovery.partial_hydration", c.Discovery.PartialHydration)
	viper.SetDefault("discovery.cache.backend", c.Discovery.Cache.Backend)
	viper.SetDefault("discovery.cache.redis_url", c.Discovery.Cache.RedisURL)
	viper.SetDefault("discovery.api_handlers", c.Discovery.APIHandlers)
	viper.SetDefault("purchase.confirmation_timeout", c.Purchase.ConfirmationTimeout)
	viper.SetDefault("purchase.wrap_enabled", c.Purchase.WrapEnabled)
	viper.SetDefault("pinning.api_url", c.Pinning.APIURL)
	viper.SetDefault("pinning.gateway_url", c.Pinning.GatewayURL)
	viper.SetDefault("pinning.max_icon_size", c.Pinning.MaxIconSize)
	viper.SetDefault("pinning.api_handlers", c.Pinning.APIHandlers)
}

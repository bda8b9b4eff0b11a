package config

import "time"

type Config struct {
	// FactoryAddress overrides the sale factory of the network. Empty means the network default.
	FactoryAddress string `mapstructure:"factory_address"`

	// GenesisBlock is the first block scanned for factory logs. Zero means the network default.
	GenesisBlock uint64 `mapstructure:"genesis_block"`

	// WindowSize is the block range of one log query, at most 1000.
	WindowSize uint64 `mapstructure:"window_size"`

	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	PartialHydration bool          `mapstructure:"partial_hydration"` // hydrate per sale and drop failing ones instead of failing the listing
	Cache            CacheConfig   `mapstructure:"cache"`
	APIHandlers      []string      `mapstructure:"api_handlers"` // e.g. `http`
}

type CacheConfig struct {
	Backend  string `mapstructure:"backend"` // `memory` | `redis`
	RedisURL string `mapstructure:"redis_url"`
}

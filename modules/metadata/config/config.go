package config

type Config struct {
	APIURL      string   `mapstructure:"api_url"`
	JWT         string   `mapstructure:"jwt"` // pinning service credential, never sent to clients
	GatewayURL  string   `mapstructure:"gateway_url"`
	MaxIconSize int      `mapstructure:"max_icon_size"` // bytes
	APIHandlers []string `mapstructure:"api_handlers"`  // e.g. `http`
}

package config

import "time"

type Config struct {
	// ConfirmationTimeout bounds each wait for a transaction to be included.
	// When exceeded, the attempt ends as pending instead of blocking.
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"`

	// WrapEnabled allows wrapping native currency to cover a payment token shortfall.
	WrapEnabled bool `mapstructure:"wrap_enabled"`
}

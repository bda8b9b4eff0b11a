package core

import "context"

// Module is a storefront feature enabled by `run`. Shutdown releases the connections it opened.
type Module interface {
	Shutdown(ctx context.Context) error
}

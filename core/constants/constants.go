package constants

// Version is the storefront version, overridden at build time with
// `-ldflags "-X github.com/gaze-network/ticket-storefront/core/constants.Version=..."`.
var Version = "v0.1.0"

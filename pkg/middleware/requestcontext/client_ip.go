package requestcontext

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type ClientIPConfig struct {
	// TrustedHeader names a header set by the edge proxy (e.g. CF-Connecting-IP).
	// A valid address in it wins over everything else.
	TrustedHeader string `mapstructure:"trusted_header"`

	// TrustedProxies lists the CIDR ranges of every proxy in front of the server.
	// The client is the right-most X-Forwarded-For address outside these ranges.
	TrustedProxies []string `mapstructure:"trusted_proxies"`

	// RejectSpoofed answers 403 when X-Forwarded-For is present but no proxy range is configured.
	RejectSpoofed bool `mapstructure:"reject_spoofed"`
}

// ClientIP returns the address stored by [WithClientIP], or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// WithClientIP resolves the client address while guarding against X-Forwarded-For spoofing.
func WithClientIP(config ClientIPConfig) (Option, error) {
	proxies := make([]netip.Prefix, 0, len(config.TrustedProxies))
	for _, cidr := range config.TrustedProxies {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy range %q", cidr)
		}
		proxies = append(proxies, prefix.Masked())
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		if config.TrustedHeader != "" {
			if addr, err := netip.ParseAddr(c.Get(config.TrustedHeader)); err == nil {
				return withClientIP(ctx, addr.String()), nil
			}
		}

		forwarded := c.IPs()
		if len(forwarded) == 0 {
			return withClientIP(ctx, c.IP()), nil
		}

		if len(proxies) > 0 {
			for i := len(forwarded) - 1; i >= 0; i-- {
				addr, err := netip.ParseAddr(forwarded[i])
				if err != nil || !trusted(proxies, addr) {
					return withClientIP(ctx, forwarded[i]), nil
				}
			}
			return withClientIP(ctx, forwarded[0]), nil
		}

		if config.RejectSpoofed {
			logger.WarnContext(ctx, "Rejecting request with untrusted X-Forwarded-For",
				slog.String("event", "requestcontext/ip_spoofing_detected"),
				slog.String("ip", c.IP()),
				slog.Any("forwarded", forwarded),
			)
			return nil, fiber.NewError(fiber.StatusForbidden, "not allowed to access")
		}
		return withClientIP(ctx, forwarded[0]), nil
	}, nil
}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func trusted(proxies []netip.Prefix, addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

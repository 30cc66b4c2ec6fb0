package shared

import (
	"github.com/gofiber/fiber/v2"
)

// ProxyConfig makes fiber read the client address from header only when the
// direct peer is one of trusted. With no trusted proxies the socket address is
// used and forwarding headers are ignored.
func ProxyConfig(cfg fiber.Config, header string, trusted []string) fiber.Config {
	if len(trusted) == 0 {
		return cfg
	}
	if header == "" {
		header = fiber.HeaderXForwardedFor
	}
	cfg.ProxyHeader = header
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = trusted
	cfg.EnableIPValidation = true
	return cfg
}

// ClientIP is the caller address as resolved under the app's proxy config.
func ClientIP(c *fiber.Ctx) string {
	return TruncateRunes(c.IP(), MaxIPLength)
}

func UserAgent(c *fiber.Ctx) string {
	return c.Get(fiber.HeaderUserAgent)
}

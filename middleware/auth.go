package middleware

import (
	"crypto/subtle"

	"github.com/avvalues/trade-hub/shared"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AdminAuth gates operational endpoints behind the shared x-admin-key secret.
type AdminAuth struct {
	key []byte
}

func NewAdminAuth(key string) *AdminAuth {
	if key == "" {
		log.Warn("ADMIN_KEY not set, admin endpoints will reject every request")
	}
	return &AdminAuth{key: []byte(key)}
}

func (a *AdminAuth) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := []byte(c.Get(shared.HeaderAdminKey))
		if len(a.key) == 0 || subtle.ConstantTimeCompare(provided, a.key) != 1 {
			log.WithFields(log.Fields{
				"ip":   shared.ClientIP(c),
				"path": c.Path(),
			}).Warn("Rejected admin request")
			return shared.NewForbiddenError("Unauthorized")
		}
		return c.Next()
	}
}

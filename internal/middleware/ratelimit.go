package middleware

import (
	"strconv"

	"studyhall/internal/models"
	"studyhall/internal/observability"
	"studyhall/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// Govern returns a Fiber middleware enforcing the governor's budget for one
// operation class. Budget is keyed by the authenticated user when present,
// otherwise the normalized remote address.
//
// Admission is checked before the handler runs, but budget is consumed only
// when the handler responds 2xx: requests that fail validation or
// authorization never count, so an attacker cannot drain a shared key by
// forcing failures.
func Govern(g *ratelimit.Governor, class ratelimit.Class) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role := CallerIdentity(c)

		// Designated non-human identities bypass the budget entirely.
		if role == models.RoleService {
			return c.Next()
		}

		key := ratelimit.IdentityKey(userID, c.IP())

		allowed, retry := g.Allow(key, class)
		if !allowed {
			observability.RateLimitDenials.WithLabelValues(string(class)).Inc()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError(retry))
		}

		if err := c.Next(); err != nil {
			return err
		}

		if status := c.Response().StatusCode(); status >= 200 && status < 300 {
			g.Record(key, class)
		}
		return nil
	}
}

// Package rayid tags every request with a unique ray ID so log lines across
// a request can be correlated.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray ID back to the client.
const Header = "X-Ray-Id"

// New creates the ray ID middleware. An incoming X-Ray-Id is honored;
// otherwise a fresh UUID is assigned.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}

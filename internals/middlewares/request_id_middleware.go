package middlewares

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const LocRequestID = "request_id"

// RequestID: X-Request-ID + timeout per request (dibawa ke GORM via UserContext).
func RequestID(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = utils.UUIDv4()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals(LocRequestID, rid)
		log.Printf("[REQ] id=%s %s %s", rid, c.Method(), c.OriginalURL())

		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}
		return c.Next()
	}
}

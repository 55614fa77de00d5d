package middlewares

import (
	"time"

	helper "mamamire_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func newLimiter(max int, exp time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: exp,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(120, time.Minute, "❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "ログイン試行回数が多すぎます。しばらくしてから再度お試しください。")
}

// Upload icon: berat (decode + encode webp)
func UploadRateLimiter() fiber.Handler {
	return newLimiter(10, 10*time.Minute, "アップロード回数の上限に達しました。")
}

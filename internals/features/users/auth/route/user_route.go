// file: internals/features/users/auth/route/auth_routes.go
package route

import (
	controller "mamamire_backend/internals/features/users/auth/controller"
	rateLimiter "mamamire_backend/internals/middlewares"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes: /api/auth (publik + logout ber-token)
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/admin/login", rateLimiter.LoginRateLimiter(), authController.AdminLogin)
	baseAuth.Post("/logout", authMw.AuthMiddleware(db), authController.Logout)
}

// AuthUserRoutes: /api/u/me
func AuthUserRoutes(r fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)
	r.Get("/me", authController.Me)
}

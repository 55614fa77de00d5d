package details

import (
	notifRoute "mamamire_backend/internals/features/notifications/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func NotificationAdminRoutes(admin fiber.Router, db *gorm.DB) {
	notifRoute.NotificationAdminRoutes(admin, db)
}

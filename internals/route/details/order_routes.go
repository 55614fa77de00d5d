package details

import (
	monthlyRoute "mamamire_backend/internals/features/orders/monthly_setups/route"
	orderRoute "mamamire_backend/internals/features/orders/orders/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func OrderUserRoutes(user fiber.Router, db *gorm.DB) {
	orderRoute.OrderUserRoutes(user, db)
	monthlyRoute.MonthlySetupUserRoutes(user, db)
}

func OrderAdminRoutes(admin fiber.Router, db *gorm.DB) {
	orderRoute.OrderAdminRoutes(admin, db)
}

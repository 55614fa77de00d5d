// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"mamamire_backend/internals/constants"
	authMw "mamamire_backend/internals/middlewares/auth"
	routeDetails "mamamire_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	// harus sebelum group /api/a: middleware group di-match per prefix string ("/api/a" ⊂ "/api/auth")
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===================== FASILITAS (/api/u) =====================
	log.Println("[INFO] Setting up USER (kindergarten) group...")
	user := app.Group("/api/u",
		authMw.AuthMiddleware(db),
		authMw.OnlyRoles(constants.RoleErrorKindergarten("/api/u"), constants.KindergartenOnly...),
	)

	// ===================== ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMw.AuthMiddleware(db),
		authMw.OnlyRoles(constants.RoleErrorAdmin("/api/a"), constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Kindergarten routes...")
	routeDetails.KindergartenUserRoutes(user, db)
	routeDetails.KindergartenAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Order routes...")
	routeDetails.OrderUserRoutes(user, db)
	routeDetails.OrderAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Notification routes...")
	routeDetails.NotificationAdminRoutes(admin, db)
}

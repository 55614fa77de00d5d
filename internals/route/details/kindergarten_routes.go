package details

import (
	classRoute "mamamire_backend/internals/features/kindergartens/class_masters/route"
	kgRoute "mamamire_backend/internals/features/kindergartens/kindergartens/route"
	authRoute "mamamire_backend/internals/features/users/auth/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// /api/u/...
func KindergartenUserRoutes(user fiber.Router, db *gorm.DB) {
	authRoute.AuthUserRoutes(user, db) // GET /me
	kgRoute.KindergartenUserRoutes(user, db)
	classRoute.ClassMasterUserRoutes(user, db)
}

// /api/a/...
func KindergartenAdminRoutes(admin fiber.Router, db *gorm.DB) {
	authRoute.AuthUserRoutes(admin, db) // GET /me
	kgRoute.KindergartenAdminRoutes(admin, db)
	classRoute.ClassMasterAdminRoutes(admin, db)
}

package route

import (
	"mamamire_backend/internals/configs"
	"mamamire_backend/internals/features/kindergartens/class_masters/controller"
	"mamamire_backend/internals/features/kindergartens/class_masters/service"
	notifService "mamamire_backend/internals/features/notifications/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newController(db *gorm.DB) *controller.ClassMasterController {
	return controller.NewClassMasterController(db,
		service.NewRosterService(db, configs.AppLocation),
		notifService.NewNotifier(db, configs.AppLocation),
	)
}

func mount(g fiber.Router, ctl *controller.ClassMasterController) {
	g.Get("/", ctl.Get)
	g.Put("/", ctl.Replace)
	g.Get("/history", ctl.History)
	g.Get("/pending", ctl.Pending)
	g.Patch("/:class_name", ctl.PatchClass)
}

// /api/u/class-masters
func ClassMasterUserRoutes(r fiber.Router, db *gorm.DB) {
	mount(r.Group("/class-masters"), newController(db))
}

// /api/a/kindergartens/:id/class-masters
func ClassMasterAdminRoutes(admin fiber.Router, db *gorm.DB) {
	mount(admin.Group("/kindergartens/:id/class-masters"), newController(db))
}

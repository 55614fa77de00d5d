package route

import (
	"mamamire_backend/internals/configs"
	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	notifService "mamamire_backend/internals/features/notifications/service"
	"mamamire_backend/internals/features/orders/deadline"
	"mamamire_backend/internals/features/orders/orders/controller"
	"mamamire_backend/internals/features/orders/orders/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeadlinePolicy dari env (configs.LoadEnv)
func DeadlinePolicy() deadline.Policy {
	p := deadline.DefaultPolicy(configs.AppLocation)
	if configs.AppLocation == nil {
		// LoadEnv belum jalan
		return p
	}
	p.StrictDaysBefore = configs.StrictLockDaysBefore
	p.StrictHour = configs.StrictLockHour
	p.GraceDaysBefore = configs.GraceLockDaysBefore
	p.GraceHour = configs.GraceLockHour
	return p
}

func NewOrderService(db *gorm.DB) *service.Service {
	return service.New(db,
		classService.NewRosterService(db, configs.AppLocation),
		notifService.NewNotifier(db, configs.AppLocation),
		DeadlinePolicy(),
	)
}

func mount(g fiber.Router, ctl *controller.OrderController) {
	g.Get("/", ctl.List)
	g.Post("/", ctl.Upsert)
	g.Post("/bulk", ctl.BulkUpsert)
	g.Get("/calendar", ctl.Calendar)
	g.Get("/status", ctl.Status)
	g.Get("/defaults", ctl.Defaults)
}

// /api/u/orders (fasilitas dari session)
func OrderUserRoutes(r fiber.Router, db *gorm.DB) {
	mount(r.Group("/orders"), controller.NewOrderController(NewOrderService(db)))
}

// /api/a/kindergartens/:id/orders (admin, tanpa deadline)
func OrderAdminRoutes(admin fiber.Router, db *gorm.DB) {
	mount(admin.Group("/kindergartens/:id/orders"), controller.NewOrderController(NewOrderService(db)))
}

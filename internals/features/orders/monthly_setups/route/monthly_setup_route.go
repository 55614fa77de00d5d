package route

import (
	"mamamire_backend/internals/configs"
	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	notifService "mamamire_backend/internals/features/notifications/service"
	"mamamire_backend/internals/features/orders/monthly_setups/controller"
	"mamamire_backend/internals/features/orders/monthly_setups/service"
	orderRoute "mamamire_backend/internals/features/orders/orders/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// /api/u/monthly-setups
func MonthlySetupUserRoutes(r fiber.Router, db *gorm.DB) {
	svc := service.New(db,
		classService.NewRosterService(db, configs.AppLocation),
		orderRoute.NewOrderService(db),
		notifService.NewNotifier(db, configs.AppLocation),
	)
	ctl := controller.NewMonthlySetupController(svc)

	g := r.Group("/monthly-setups")
	g.Post("/", ctl.Open)
	g.Post("/preview", ctl.Preview)
	g.Get("/:year/:month", ctl.Get)
	g.Put("/:year/:month/roster", ctl.PatchRoster)
	g.Post("/:year/:month/days/:date/toggle", ctl.ToggleDay)
	g.Put("/:year/:month/memo", ctl.SetMemo)
	g.Post("/:year/:month/next", ctl.Next)
	g.Post("/:year/:month/back", ctl.Back)
	g.Post("/:year/:month/submit", ctl.Submit)
}

package route

import (
	"mamamire_backend/internals/configs"
	"mamamire_backend/internals/features/notifications/controller"
	"mamamire_backend/internals/features/notifications/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func NotificationAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewNotificationController(db, service.NewNotifier(db, configs.AppLocation))

	settings := admin.Group("/system-settings")
	settings.Get("/", ctl.GetSettings)
	settings.Patch("/", ctl.PatchSettings)

	logs := admin.Group("/notification-logs")
	logs.Get("/", ctl.ListLogs)
	logs.Post("/reminders/run", ctl.RunReminder)
}

package route

import (
	"log"

	"mamamire_backend/internals/features/kindergartens/kindergartens/controller"
	"mamamire_backend/internals/features/kindergartens/kindergartens/service"
	ossHelper "mamamire_backend/internals/helpers/oss"
	"mamamire_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newController(db *gorm.DB) *controller.KindergartenController {
	var icons service.IconStore
	if svc, err := ossHelper.NewOSSServiceFromEnv("mamamire"); err != nil {
		log.Printf("[WARN] OSS tidak aktif, upload ikon dimatikan: %v", err)
	} else {
		icons = svc
	}
	return controller.NewKindergartenController(service.New(db, icons))
}

// /api/u/kindergarten
func KindergartenUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newController(db)
	g := r.Group("/kindergarten")
	g.Get("/", ctl.GetMine)
	g.Patch("/", ctl.PatchMine)
	g.Post("/icon", middlewares.UploadRateLimiter(), ctl.UploadIcon)
}

// /api/a/kindergartens
func KindergartenAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := newController(db)
	g := admin.Group("/kindergartens")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
}

package controller

import (
	"strings"

	"mamamire_backend/internals/features/notifications/dto"
	"mamamire_backend/internals/features/notifications/model"
	"mamamire_backend/internals/features/notifications/service"
	helper "mamamire_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

type NotificationController struct {
	DB       *gorm.DB
	Notifier *service.Notifier
}

func NewNotificationController(db *gorm.DB, n *service.Notifier) *NotificationController {
	return &NotificationController{DB: db, Notifier: n}
}

// GET /api/a/system-settings
func (ctl *NotificationController) GetSettings(c *fiber.Ctx) error {
	s, err := ctl.Notifier.Settings(c.UserContext(), nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengaturan")
	}
	return helper.JsonOK(c, "ok", s)
}

// PATCH /api/a/system-settings
func (ctl *NotificationController) PatchSettings(c *fiber.Ctx) error {
	var req dto.PatchSystemSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	s, err := ctl.Notifier.Settings(c.UserContext(), nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengaturan")
	}
	req.Apply(&s)
	if err := ctl.Notifier.SaveSettings(c.UserContext(), &s); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan pengaturan")
	}
	return helper.JsonUpdated(c, "設定を保存しました", s)
}

// GET /api/a/notification-logs?kind=&kindergarten_id=&page=&per_page=
func (ctl *NotificationController) ListLogs(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.NotificationLogModel{})
	if kind := strings.TrimSpace(c.Query("kind")); kind != "" {
		q = q.Where("notification_log_kind = ?", kind)
	}
	if raw := strings.TrimSpace(c.Query("kindergarten_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "kindergarten_id tidak valid")
		}
		q = q.Where("notification_log_kindergarten_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}
	var rows []model.NotificationLogModel
	if err := q.Order("notification_log_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	pg := helper.BuildPagination(total, p, rows)
	return helper.JsonList(c, "ok", rows, &pg)
}

// POST /api/a/notification-logs/reminders/run (trigger manual job reminder)
func (ctl *NotificationController) RunReminder(c *fiber.Ctx) error {
	sent, err := ctl.Notifier.RunMonthlyReminder(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", fiber.Map{"sent": sent})
}

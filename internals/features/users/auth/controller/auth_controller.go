package controller

import (
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	authModel "mamamire_backend/internals/features/users/auth/model"
	"mamamire_backend/internals/features/users/auth/service"
	helper "mamamire_backend/internals/helpers"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) AdminLogin(c *fiber.Ctx) error {
	return service.AdminLogin(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}

// GET /api/u/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	sess, ok := authMw.SessionFrom(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.UserContext()
	if sess.IsAdmin() {
		var u authModel.AdminUserModel
		if err := ac.DB.WithContext(ctx).First(&u, "admin_user_id = ?", sess.SubjectID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Admin not found")
		}
		return helper.JsonOK(c, "ok", fiber.Map{"role": sess.Role, "admin": u})
	}

	var kg kgModel.KindergartenModel
	if err := ac.DB.WithContext(ctx).First(&kg, "kindergarten_id = ?", sess.KindergartenID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Kindergarten not found")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"role":         sess.Role,
		"kindergarten": kg,
		"services":     kg.ServiceLabels(),
	})
}

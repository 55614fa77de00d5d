package service

import (
	"errors"
	"log"
	"strings"
	"time"

	authHelper "mamamire_backend/internals/features/users/auth/helper"
	authRepo "mamamire_backend/internals/features/users/auth/repository"
	helper "mamamire_backend/internals/helpers"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const invalidCredentials = "ログインIDまたはパスワードが正しくありません"

type loginInput struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

func parseLogin(c *fiber.Ctx) (loginInput, *fiber.Error) {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "Invalid input format")
	}
	in.LoginID = helper.NormalizeName(in.LoginID)
	if err := authHelper.ValidateLoginInput(in.LoginID, in.Password); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return in, nil
}

/* ==========================
   LOGIN fasilitas (login_id + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	in, fe := parseLogin(c)
	if fe != nil {
		return helper.JsonError(c, fe.Code, fe.Message)
	}

	kg, err := authRepo.FindKindergartenByLoginID(c.UserContext(), db, in.LoginID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, invalidCredentials)
	}
	if err := authHelper.CheckPasswordHash(kg.KindergartenPasswordHash, in.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, invalidCredentials)
	}
	if !kg.KindergartenIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "このアカウントは無効化されています。事務局へご連絡ください。")
	}

	token, exp, err := IssueKindergartenToken(kg.KindergartenID, kg.KindergartenName, nowUTC())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}
	log.Printf("[INFO] login kindergarten=%s", kg.KindergartenCode)

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"expires_at":   exp,
		"role":         authMw.RoleKindergarten,
		"kindergarten": kg,
	})
}

/* ==========================
   LOGIN admin (kantor)
========================== */

func AdminLogin(db *gorm.DB, c *fiber.Ctx) error {
	in, fe := parseLogin(c)
	if fe != nil {
		return helper.JsonError(c, fe.Code, fe.Message)
	}

	u, err := authRepo.FindAdminByLoginID(c.UserContext(), db, in.LoginID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, invalidCredentials)
	}
	if err := authHelper.CheckPasswordHash(u.AdminUserPasswordHash, in.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, invalidCredentials)
	}
	if !u.AdminUserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "このアカウントは無効化されています")
	}

	token, exp, err := IssueAdminToken(u.AdminUserID, u.AdminUserName, nowUTC())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}
	log.Printf("[INFO] login admin=%s", u.AdminUserLoginID)

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"expires_at":   exp,
		"role":         authMw.RoleAdmin,
		"admin":        u,
	})
}

/* ==========================
   LOGOUT → blacklist token sampai exp
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	sess, ok := authMw.SessionFrom(c)
	if !ok || strings.TrimSpace(sess.Token) == "" {
		return helper.JsonOK(c, "Logout successful", nil)
	}

	expAt := sess.ExpiresAt
	if expAt.IsZero() {
		expAt = nowUTC().Add(accessTTL())
	}
	if err := authRepo.BlacklistToken(c.UserContext(), db, sess.Token, expAt.Add(time.Minute)); err != nil {
		log.Printf("[WARN] Failed to blacklist token: %v", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  nowUTC().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "Logout successful", nil)
}

// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"mamamire_backend/internals/configs"
	TokenBlacklistModel "mamamire_backend/internals/features/users/auth/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// 2) Cek blacklist (logout)
		var existing TokenBlacklistModel.TokenBlacklist
		if err := db.WithContext(c.UserContext()).
			Where("token = ?", tokenString).
			Take(&existing).Error; err == nil {
			log.Println("[WARNING] Token ditemukan di blacklist")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("[ERROR] DB error saat cek blacklist:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		// 3) Parse & verifikasi JWT (exp divalidasi manual dengan skew)
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		expAt, err := validateTokenExpiry(claims, 30*time.Second)
		if err != nil {
			log.Println("[ERROR] Exp validation:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 4) Claims → Session
		sess, err := sessionFromClaims(claims)
		if err != nil {
			log.Println("[ERROR] claims:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid claims")
		}
		sess.Token = tokenString
		sess.ExpiresAt = expAt

		if err := ensureSubjectActive(db.WithContext(c.UserContext()), sess); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Account not found")
			}
			return fiber.NewError(fiber.StatusForbidden, "アカウントが無効化されています")
		}

		WithSession(c, sess)
		return c.Next()
	}
}

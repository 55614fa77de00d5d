// internals/middlewares/auth/claims_utils.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	// Authorization header, fallback cookie
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

func claimUnix(claims jwt.MapClaims, key string) (int64, error) {
	v, ok := claims[key]
	if !ok {
		return 0, fmt.Errorf("token has no %s", key)
	}
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("invalid %s type", key)
	}
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) (time.Time, error) {
	expUnix, err := claimUnix(claims, "exp")
	if err != nil {
		return time.Time{}, err
	}
	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return expTime, fmt.Errorf("token expired at %v", expTime)
	}
	return expTime, nil
}

func claimUUID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("no %s", key)
	}
	return uuid.Parse(strings.TrimSpace(raw))
}

// sessionFromClaims: id + role wajib; kindergarten_id wajib untuk role fasilitas
func sessionFromClaims(claims jwt.MapClaims) (Session, error) {
	id, err := claimUUID(claims, "id")
	if err != nil {
		return Session{}, err
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)

	s := Session{SubjectID: id, Role: role, Name: name}
	switch role {
	case RoleKindergarten:
		kgID, err := claimUUID(claims, "kindergarten_id")
		if err != nil {
			return Session{}, err
		}
		s.KindergartenID = kgID
	case RoleAdmin:
	default:
		return Session{}, fmt.Errorf("unknown role %q", role)
	}
	return s, nil
}

func ensureSubjectActive(db *gorm.DB, s Session) error {
	var row struct{ IsActive bool }
	var q *gorm.DB
	switch s.Role {
	case RoleAdmin:
		q = db.Table("admin_users").Select("admin_user_is_active AS is_active").Where("admin_user_id = ?", s.SubjectID)
	default:
		q = db.Table("kindergartens").Select("kindergarten_is_active AS is_active").Where("kindergarten_id = ?", s.KindergartenID)
	}
	if err := q.Take(&row).Error; err != nil {
		return err
	}
	if !row.IsActive {
		return errors.New("subject inactive")
	}
	return nil
}

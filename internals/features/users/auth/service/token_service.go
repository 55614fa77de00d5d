// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"mamamire_backend/internals/configs"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrMissingSecret = errors.New("JWT_SECRET belum diset")

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	s := strings.TrimSpace(configs.JWTSecret)
	if s == "" {
		return "", ErrMissingSecret
	}
	return s, nil
}

func accessTTL() time.Duration {
	if configs.AccessTokenTTL > 0 {
		return configs.AccessTokenTTL
	}
	return 7 * 24 * time.Hour
}

func buildAccessClaims(subjectID uuid.UUID, role, name string, kindergartenID uuid.UUID, now time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"id":   subjectID.String(),
		"role": role,
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTTL()).Unix(),
	}
	if kindergartenID != uuid.Nil {
		claims["kindergarten_id"] = kindergartenID.String()
	}
	return claims
}

// IssueAccessToken: HS256, klaim id/role/name (+kindergarten_id untuk fasilitas)
func IssueAccessToken(subjectID uuid.UUID, role, name string, kindergartenID uuid.UUID, now time.Time) (string, time.Time, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	claims := buildAccessClaims(subjectID, role, name, kindergartenID, now)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, now.Add(accessTTL()), nil
}

func IssueKindergartenToken(kindergartenID uuid.UUID, name string, now time.Time) (string, time.Time, error) {
	return IssueAccessToken(kindergartenID, authMw.RoleKindergarten, name, kindergartenID, now)
}

func IssueAdminToken(adminID uuid.UUID, name string, now time.Time) (string, time.Time, error) {
	return IssueAccessToken(adminID, authMw.RoleAdmin, name, uuid.Nil, now)
}

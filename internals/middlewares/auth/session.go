package auth

import (
	"strings"
	"time"

	"mamamire_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RoleKindergarten = constants.RoleKindergarten
	RoleAdmin        = constants.RoleAdmin
)

const LocSession = "session"

// Session: identitas login yang diteruskan eksplisit ke controller/service.
type Session struct {
	SubjectID      uuid.UUID // kindergarten_id atau admin_user_id
	Role           string
	Name           string
	KindergartenID uuid.UUID // uuid.Nil untuk admin
	Token          string
	ExpiresAt      time.Time
}

func (s Session) IsAdmin() bool        { return s.Role == RoleAdmin }
func (s Session) IsKindergarten() bool { return s.Role == RoleKindergarten }

func WithSession(c *fiber.Ctx, s Session) {
	c.Locals(LocSession, s)
}

func SessionFrom(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(LocSession).(Session)
	return s, ok
}

// KindergartenSession: wajib login sebagai fasilitas
func KindergartenSession(c *fiber.Ctx) (Session, error) {
	s, ok := SessionFrom(c)
	if !ok {
		return Session{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	if !s.IsKindergarten() || s.KindergartenID == uuid.Nil {
		return Session{}, fiber.NewError(fiber.StatusForbidden, "施設アカウントでログインしてください")
	}
	return s, nil
}

// OnlyRoles: guard role untuk group route
func OnlyRoles(message string, roles ...string) fiber.Handler {
	if message == "" {
		message = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		s, ok := SessionFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing session")
		}
		for _, r := range roles {
			if s.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, message)
	}
}

// TargetKindergarten: fasilitas yang sedang dioperasikan.
// Fasilitas → dari session; admin → dari path param :id.
func TargetKindergarten(c *fiber.Ctx) (Session, uuid.UUID, error) {
	sess, ok := SessionFrom(c)
	if !ok {
		return sess, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	if sess.IsAdmin() {
		id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
		if err != nil {
			return sess, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "kindergarten id tidak valid")
		}
		return sess, id, nil
	}
	s, err := KindergartenSession(c)
	if err != nil {
		return sess, uuid.Nil, err
	}
	return s, s.KindergartenID, nil
}

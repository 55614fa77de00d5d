package constants

import "fmt"

const (
	RoleKindergarten = "kindergarten"
	RoleAdmin        = "admin"
)

// Template pesan error role
const (
	ErrOnlyKindergartenCanAccess = "施設アカウントでログインしてください (%s)"
	ErrOnlyAdminsCanAccess       = "❌ Hanya admin yang boleh mengakses fitur %s."
)

func RoleErrorKindergarten(feature string) string {
	return fmt.Sprintf(ErrOnlyKindergartenCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var (
	AllRoles = []string{
		RoleKindergarten,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	KindergartenOnly = []string{
		RoleKindergarten,
	}
)

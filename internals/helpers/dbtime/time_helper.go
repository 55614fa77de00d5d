// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"time"

	"mamamire_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
)

const DateLayout = "2006-01-02"

// Nama locals yang di-set middleware (opsional override per-request)
const LocAppLoc = "app_loc" // *time.Location

// GetLocation:
// 1) c.Locals("app_loc") kalau ada
// 2) configs.AppLocation (APP_TIMEZONE)
// 3) Asia/Tokyo
func GetLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if loc, ok := c.Locals(LocAppLoc).(*time.Location); ok && loc != nil {
			return loc
		}
	}
	if configs.AppLocation != nil {
		return configs.AppLocation
	}
	return configs.LoadLocation("Asia/Tokyo")
}

// DateOf: tanggal kalender t di zona loc, dinormalisasi ke 00:00 UTC.
// Semua kolom `date` disimpan dalam bentuk ini.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date: konstruktor tanggal (UTC midnight)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate "YYYY-MM-DD" → UTC midnight
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("tanggal tidak valid %q (format YYYY-MM-DD)", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// MonthBounds: [awal bulan, awal bulan berikutnya)
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	from := Date(year, month, 1)
	return from, from.AddDate(0, 1, 0)
}

// Today: tanggal hari ini di zona request
func Today(c *fiber.Ctx) time.Time {
	return DateOf(time.Now(), GetLocation(c))
}

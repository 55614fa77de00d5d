package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ✅ Khusus error validasi (validator.v10) → 422 dengan map field → tag
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := toSnake(fe.Field())
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields[key] = append(fields[key], msg)
	}
	return JsonValidationError(c, fields)
}

// StudentCount → student_count
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler: fiber.Config.ErrorHandler → shape JSON standar
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if pe := MapPGError(err); pe != nil {
		return JsonError(c, pe.Code, pe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

package controller

import (
	"errors"
	"log"

	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	"mamamire_backend/internals/features/orders/orders/service"
	helper "mamamire_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var orderErrorMappings = []errorMapping{
	{service.ErrStrictLocked, fiber.StatusLocked, "STRICT_LOCKED"},
	{service.ErrGraceConfirmationRequired, fiber.StatusPreconditionRequired, "GRACE_CONFIRMATION_REQUIRED"},
	{service.ErrNotServiceDay, fiber.StatusUnprocessableEntity, "NOT_SERVICE_DAY"},
	{service.ErrUnknownClass, fiber.StatusUnprocessableEntity, "UNKNOWN_CLASS"},
	{service.ErrInvalidMealType, fiber.StatusUnprocessableEntity, "INVALID_MEAL_TYPE"},
	{service.ErrNegativeCount, fiber.StatusUnprocessableEntity, "NEGATIVE_COUNT"},
	{service.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{service.ErrOrderKeyMismatch, fiber.StatusConflict, "ORDER_KEY_MISMATCH"},
	{service.ErrKindergartenNotFound, fiber.StatusNotFound, "KINDERGARTEN_NOT_FOUND"},
	{classService.ErrEmptyClassName, fiber.StatusUnprocessableEntity, "INVALID_CLASS_NAME"},
	{classService.ErrReservedClassName, fiber.StatusUnprocessableEntity, "INVALID_CLASS_NAME"},
	{classService.ErrDuplicateClassName, fiber.StatusUnprocessableEntity, "DUPLICATE_CLASS_NAME"},
	{classService.ErrNegativeCount, fiber.StatusUnprocessableEntity, "NEGATIVE_COUNT"},
}

// WriteServiceError: error domain → status + error_code; PG error → MapPGError; sisanya 500
func WriteServiceError(c *fiber.Ctx, err error) error {
	for _, m := range orderErrorMappings {
		if errors.Is(err, m.target) {
			return helper.JsonErrorCode(c, m.status, m.code, err.Error())
		}
	}
	if fe := helper.MapPGError(err); fe != nil {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] orders: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "サーバーエラーが発生しました")
}

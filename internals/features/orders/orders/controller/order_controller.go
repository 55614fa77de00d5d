package controller

import (
	"strconv"
	"strings"
	"time"

	"mamamire_backend/internals/features/orders/orders/dto"
	"mamamire_backend/internals/features/orders/orders/service"
	helper "mamamire_backend/internals/helpers"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type OrderController struct {
	Svc *service.Service
}

func NewOrderController(svc *service.Service) *OrderController {
	return &OrderController{Svc: svc}
}

// ?year=&month= (default: bulan berjalan di zona app)
func parseYearMonth(c *fiber.Ctx) (int, time.Month, error) {
	today := dbtime.Today(c)
	year, month := today.Year(), today.Month()
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2100 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year tidak valid")
		}
		year = y
	}
	if v := strings.TrimSpace(c.Query("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "month tidak valid")
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// GET /orders?year=&month=
func (ctl *OrderController) List(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	year, month, err := parseYearMonth(c)
	if err != nil {
		return err
	}
	rows, err := ctl.Svc.MonthOrders(c.UserContext(), kgID, year, month)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// GET /orders/calendar?year=&month=
func (ctl *OrderController) Calendar(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	year, month, err := parseYearMonth(c)
	if err != nil {
		return err
	}
	cal, err := ctl.Svc.Calendar(c.UserContext(), kgID, year, month)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", cal)
}

// GET /orders/status?year=&month=
func (ctl *OrderController) Status(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	year, month, err := parseYearMonth(c)
	if err != nil {
		return err
	}
	st, err := ctl.Svc.MonthStatus(c.UserContext(), kgID, year, month)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", st)
}

// GET /orders/defaults?date=YYYY-MM-DD
func (ctl *OrderController) Defaults(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	date, err := dbtime.ParseDate(c.Query("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	out, err := ctl.Svc.Defaults(c.UserContext(), kgID, date)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /orders
func (ctl *OrderController) Upsert(c *fiber.Ctx) error {
	sess, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	var req dto.UpsertOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Svc.Upsert(c.UserContext(), sess, kgID, in)
	if err != nil {
		return WriteServiceError(c, err)
	}
	if res.Created {
		return helper.JsonCreated(c, "注文を保存しました", res)
	}
	return helper.JsonUpdated(c, "注文を保存しました", res)
}

// POST /orders/bulk
func (ctl *OrderController) BulkUpsert(c *fiber.Ctx) error {
	sess, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	var req dto.BulkUpsertOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	inputs, err := req.ToInputs()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Svc.BulkUpsert(c.UserContext(), sess, kgID, inputs, service.BulkOptions{ConfirmGrace: req.ConfirmGrace})
	if err != nil {
		return WriteServiceError(c, err)
	}
	return helper.JsonOK(c, "一括保存しました", res)
}

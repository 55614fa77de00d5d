package controller

import (
	"errors"
	"strconv"
	"time"

	"mamamire_backend/internals/features/orders/monthly_setups/dto"
	"mamamire_backend/internals/features/orders/monthly_setups/service"
	orderController "mamamire_backend/internals/features/orders/orders/controller"
	helper "mamamire_backend/internals/helpers"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type MonthlySetupController struct {
	Svc *service.Service
}

func NewMonthlySetupController(svc *service.Service) *MonthlySetupController {
	return &MonthlySetupController{Svc: svc}
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "DRAFT_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrDraftTransition):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "DRAFT_TRANSITION", err.Error())
	case errors.Is(err, service.ErrMonthSubmitted):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "MONTH_ALREADY_SUBMITTED", err.Error())
	}
	return orderController.WriteServiceError(c, err)
}

func pathYearMonth(c *fiber.Ctx) (int, time.Month, error) {
	y, err := strconv.Atoi(c.Params("year"))
	if err != nil || y < 2000 || y > 2100 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year tidak valid")
	}
	m, err := strconv.Atoi(c.Params("month"))
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "month tidak valid")
	}
	return y, time.Month(m), nil
}

// POST /monthly-setups {year, month}
func (ctl *MonthlySetupController) Open(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	var req dto.OpenDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	d, err := ctl.Svc.Open(c.UserContext(), sess.KindergartenID, req.Year, time.Month(req.Month))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}

// GET /monthly-setups/:year/:month
func (ctl *MonthlySetupController) Get(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	d, err := ctl.Svc.Get(c.UserContext(), sess.KindergartenID, y, m)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", d)
}

// PUT /monthly-setups/:year/:month/roster
func (ctl *MonthlySetupController) PatchRoster(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	var req dto.PatchRosterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	d, err := ctl.Svc.PatchRoster(c.UserContext(), sess.KindergartenID, y, m, dto.ToRoster(req.Roster))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "ok", d)
}

// POST /monthly-setups/:year/:month/days/:date/toggle
func (ctl *MonthlySetupController) ToggleDay(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	date, err := dbtime.ParseDate(c.Params("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	var req dto.ToggleDayRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&req); err != nil {
			return helper.ValidationError(c, err)
		}
	}
	d, err := ctl.Svc.ToggleDay(c.UserContext(), sess.KindergartenID, y, m, dbtime.FormatDate(date), req.MealType)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "ok", d)
}

// PUT /monthly-setups/:year/:month/memo
func (ctl *MonthlySetupController) SetMemo(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	var req dto.MemoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	d, err := ctl.Svc.SetMemo(c.UserContext(), sess.KindergartenID, y, m, req.Memo)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "ok", d)
}

// POST /monthly-setups/:year/:month/next
func (ctl *MonthlySetupController) Next(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	d, err := ctl.Svc.Next(c.UserContext(), sess.KindergartenID, y, m)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "ok", d)
}

// POST /monthly-setups/:year/:month/back
func (ctl *MonthlySetupController) Back(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	d, err := ctl.Svc.Back(c.UserContext(), sess.KindergartenID, y, m)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "ok", d)
}

// POST /monthly-setups/:year/:month/submit
func (ctl *MonthlySetupController) Submit(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	y, m, err := pathYearMonth(c)
	if err != nil {
		return err
	}
	res, err := ctl.Svc.Submit(c.UserContext(), sess, sess.KindergartenID, y, m)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "月次注文を提出しました", res)
}

// POST /monthly-setups/preview
func (ctl *MonthlySetupController) Preview(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	var req dto.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	p := req.ToPayload()
	orders, err := ctl.Svc.Preview(c.UserContext(), sess.KindergartenID, req.Year, time.Month(req.Month), p)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.NewPreviewResponse(orders, p.Roster))
}

package controller

import (
	"errors"
	"log"
	"strings"

	"mamamire_backend/internals/constants"
	"mamamire_backend/internals/features/kindergartens/kindergartens/dto"
	"mamamire_backend/internals/features/kindergartens/kindergartens/service"
	authHelper "mamamire_backend/internals/features/users/auth/helper"
	helper "mamamire_backend/internals/helpers"
	ossHelper "mamamire_backend/internals/helpers/oss"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type KindergartenController struct {
	Svc *service.Service
}

func NewKindergartenController(svc *service.Service) *KindergartenController {
	return &KindergartenController{Svc: svc}
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "KINDERGARTEN_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNoIconStore):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, authHelper.ErrEmptyLoginID), errors.Is(err, authHelper.ErrShortPassword):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ossHelper.ErrUnsupportedImage), errors.Is(err, ossHelper.ErrEmptyImage):
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Unsupported image format (pakai jpg/png/webp)")
	}
	if fe := helper.MapPGError(err); fe != nil {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] kindergartens: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "サーバーエラーが発生しました")
}

/* ===================== FASILITAS (/api/u/kindergarten) ===================== */

// GET /kindergarten
func (ctl *KindergartenController) GetMine(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	kg, err := ctl.Svc.Get(c.UserContext(), sess.KindergartenID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(kg))
}

// PATCH /kindergarten
func (ctl *KindergartenController) PatchMine(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	var req dto.UpdateKindergartenRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	kg, err := ctl.Svc.Update(c.UserContext(), sess.KindergartenID, req.Apply, nil)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "施設情報を更新しました", dto.FromModel(kg))
}

// POST /kindergarten/icon (multipart: icon)
func (ctl *KindergartenController) UploadIcon(c *fiber.Ctx) error {
	sess, err := authMw.KindergartenSession(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("icon")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File icon tidak ditemukan")
	}
	if constants.DetectFileTypeFromExt(fh.Filename) != constants.FileImage {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Unsupported image format (pakai jpg/png/webp)")
	}
	if fh.Size > ossHelper.MaxIconUploadSize {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "Ukuran gambar maksimal 5MB")
	}
	kg, err := ctl.Svc.SetIcon(c.UserContext(), sess.KindergartenID, fh)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "アイコンを更新しました", dto.FromModel(kg))
}

/* ===================== ADMIN (/api/a/kindergartens) ===================== */

// GET /kindergartens?q=&active=&page=&per_page=
func (ctl *KindergartenController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)
	f := service.ListFilter{Q: c.Query("q")}
	switch strings.ToLower(strings.TrimSpace(c.Query("active"))) {
	case "true", "1":
		v := true
		f.Active = &v
	case "false", "0":
		v := false
		f.Active = &v
	}
	rows, total, err := ctl.Svc.List(c.UserContext(), f, p)
	if err != nil {
		return writeError(c, err)
	}
	data := dto.FromModels(rows)
	pg := helper.BuildPagination(total, p, data)
	return helper.JsonList(c, "ok", data, &pg)
}

// GET /kindergartens/:id
func (ctl *KindergartenController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "kindergarten id tidak valid")
	}
	kg, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(kg))
}

// POST /kindergartens
func (ctl *KindergartenController) Create(c *fiber.Ctx) error {
	var req dto.CreateKindergartenRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	kg := req.ToModel()
	if err := ctl.Svc.Create(c.UserContext(), kg, req.Password); err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c, "施設を登録しました", dto.FromModel(kg))
}

// PATCH /kindergartens/:id
func (ctl *KindergartenController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "kindergarten id tidak valid")
	}
	var req dto.AdminUpdateKindergartenRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	kg, err := ctl.Svc.Update(c.UserContext(), id, req.Apply, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "施設情報を更新しました", dto.FromModel(kg))
}

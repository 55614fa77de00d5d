package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"mamamire_backend/internals/features/kindergartens/class_masters/dto"
	"mamamire_backend/internals/features/kindergartens/class_masters/service"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	notifModel "mamamire_backend/internals/features/notifications/model"
	notifService "mamamire_backend/internals/features/notifications/service"
	helper "mamamire_backend/internals/helpers"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

var errClassNotFound = errors.New("指定されたクラスが見つかりません")

type ClassMasterController struct {
	DB       *gorm.DB
	Roster   *service.RosterService
	Notifier *notifService.Notifier
}

func NewClassMasterController(db *gorm.DB, roster *service.RosterService, notifier *notifService.Notifier) *ClassMasterController {
	return &ClassMasterController{DB: db, Roster: roster, Notifier: notifier}
}

func writeRosterError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyClassName), errors.Is(err, service.ErrReservedClassName):
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity, "INVALID_CLASS_NAME", err.Error())
	case errors.Is(err, service.ErrDuplicateClassName):
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity, "DUPLICATE_CLASS_NAME", err.Error())
	case errors.Is(err, service.ErrNegativeCount):
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity, "NEGATIVE_COUNT", err.Error())
	case errors.Is(err, errClassNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "CLASS_NOT_FOUND", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "KINDERGARTEN_NOT_FOUND", "施設が見つかりません")
	}
	if fe := helper.MapPGError(err); fe != nil {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] class_masters: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "サーバーエラーが発生しました")
}

func (ctl *ClassMasterController) loadKindergarten(ctx context.Context, id uuid.UUID) (*kgModel.KindergartenModel, error) {
	var kg kgModel.KindergartenModel
	if err := ctl.DB.WithContext(ctx).Where("kindergarten_id = ?", id).Take(&kg).Error; err != nil {
		return nil, err
	}
	return &kg, nil
}

// notifyChange: hanya perubahan oleh fasilitas yang dilaporkan ke admin; gagal cukup di-log
func (ctl *ClassMasterController) notifyChange(ctx context.Context, sess authMw.Session, kg *kgModel.KindergartenModel, g *service.Generation) {
	if sess.IsAdmin() || ctl.Notifier == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "適用開始日: %s\n", dbtime.FormatDate(g.Version.ClassRosterVersionEffectiveFrom))
	if g.IsClassless() {
		b.WriteString("クラス登録なし (共通)\n")
	}
	for _, cl := range g.Classes {
		fmt.Fprintf(&b, "- %s: 園児%d / アレルギー%d / 先生%d\n",
			cl.ClassMasterClassName, cl.ClassMasterDefaultStudentCount, cl.AllergyOrZero(), cl.ClassMasterDefaultTeacherCount)
	}
	kgID := kg.KindergartenID
	if err := ctl.Notifier.NotifyAdmins(ctx, nil, notifModel.KindRosterChange, kg.KindergartenName, &kgID, "クラス・人数変更", b.String()); err != nil {
		log.Printf("[WARN] notifikasi roster gagal kg=%s: %v", kgID, err)
	}
}

// GET /class-masters?as_of=YYYY-MM-DD (default hari ini)
func (ctl *ClassMasterController) Get(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	asOf := dbtime.Today(c)
	if v := strings.TrimSpace(c.Query("as_of")); v != "" {
		if asOf, err = dbtime.ParseDate(v); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	g, _, err := ctl.Roster.AsOf(c.UserContext(), kgID, asOf)
	if err != nil {
		return writeRosterError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromGeneration(g, &asOf))
}

// GET /class-masters/history
func (ctl *ClassMasterController) History(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	gens, _, err := ctl.Roster.Generations(c.UserContext(), nil, kgID)
	if err != nil {
		return writeRosterError(c, err)
	}
	out := make([]dto.RosterResponse, 0, len(gens))
	for i := range gens {
		out = append(out, dto.FromGeneration(&gens[i], nil))
	}
	return helper.JsonList(c, "ok", out, nil)
}

// GET /class-masters/pending
func (ctl *ClassMasterController) Pending(c *fiber.Ctx) error {
	_, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	gens, err := ctl.Roster.Pending(c.UserContext(), kgID)
	if err != nil {
		return writeRosterError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromPending(gens), nil)
}

// PUT /class-masters: full-replace roster
func (ctl *ClassMasterController) Replace(c *fiber.Ctx) error {
	sess, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	var req dto.ReplaceClassMastersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	eff, err := dto.ParseOptionalDate(req.EffectiveFrom)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	kg, err := ctl.loadKindergarten(ctx, kgID)
	if err != nil {
		return writeRosterError(c, err)
	}
	g, err := ctl.Roster.Replace(ctx, nil, kgID, dto.ToInputs(req.Classes), eff)
	if err != nil {
		return writeRosterError(c, err)
	}
	ctl.notifyChange(ctx, sess, kg, g)
	return helper.JsonUpdated(c, "クラス情報を保存しました", dto.FromGeneration(g, nil))
}

// PATCH /class-masters/:class_name: ubah default satu kelas,
// roster lain ikut disalin ke generasi baru.
func (ctl *ClassMasterController) PatchClass(c *fiber.Ctx) error {
	sess, kgID, err := authMw.TargetKindergarten(c)
	if err != nil {
		return err
	}
	name, err := url.PathUnescape(c.Params("class_name"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_name tidak valid")
	}
	name = helper.NormalizeName(name)

	var req dto.PatchClassDefaultsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	eff, err := dto.ParseOptionalDate(req.EffectiveFrom)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	asOf := dbtime.Today(c)
	if eff != nil {
		asOf = *eff
	}

	ctx := c.UserContext()
	kg, err := ctl.loadKindergarten(ctx, kgID)
	if err != nil {
		return writeRosterError(c, err)
	}

	var saved *service.Generation
	err = ctl.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gens, _, err := ctl.Roster.Generations(ctx, tx, kgID)
		if err != nil {
			return err
		}
		inputs := service.ToInputs(service.ActiveGeneration(gens, asOf))
		idx := -1
		for i := range inputs {
			if inputs[i].ClassName == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errClassNotFound
		}
		req.Apply(&inputs[idx])
		saved, err = ctl.Roster.Replace(ctx, tx, kgID, inputs, &asOf)
		return err
	})
	if err != nil {
		return writeRosterError(c, err)
	}
	ctl.notifyChange(ctx, sess, kg, saved)
	return helper.JsonUpdated(c, "クラス情報を更新しました", dto.FromGeneration(saved, nil))
}

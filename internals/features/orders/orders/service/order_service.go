package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	notifModel "mamamire_backend/internals/features/notifications/model"
	"mamamire_backend/internals/features/orders/deadline"
	"mamamire_backend/internals/features/orders/mealtype"
	"mamamire_backend/internals/features/orders/orders/model"
	"mamamire_backend/internals/features/orders/orders/repository"
	helper "mamamire_backend/internals/helpers"
	"mamamire_backend/internals/helpers/dbtime"
	authMw "mamamire_backend/internals/middlewares/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RosterLookup: roster yang berlaku per tanggal (+ riwayat semua versi kelas)
type RosterLookup interface {
	Generations(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID) ([]classService.Generation, []classModel.ClassMasterModel, error)
	AsOf(ctx context.Context, kindergartenID uuid.UUID, date time.Time) (*classService.Generation, []classModel.ClassMasterModel, error)
}

type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, tx *gorm.DB, kind, kindergartenName string, kindergartenID *uuid.UUID, action, details string) error
}

type Service struct {
	DB       *gorm.DB
	Orders   *repository.OrderRepository
	Rosters  RosterLookup
	Notifier AdminNotifier
	Policy   deadline.Policy
	Now      func() time.Time
}

func New(db *gorm.DB, rosters RosterLookup, notifier AdminNotifier, policy deadline.Policy) *Service {
	return &Service{
		DB:       db,
		Orders:   repository.New(db),
		Rosters:  rosters,
		Notifier: notifier,
		Policy:   policy,
		Now:      time.Now,
	}
}

type UpsertInput struct {
	OrderID      *uuid.UUID
	Date         time.Time
	ClassName    string
	MealType     string
	StudentCount int
	AllergyCount int
	TeacherCount int
	Memo         string
	ConfirmGrace bool
}

type UpsertResult struct {
	Order    model.OrderModel `json:"order"`
	Deadline deadline.State   `json:"deadline_state"`
	Created  bool             `json:"created"`
}

func (s *Service) LoadKindergarten(ctx context.Context, id uuid.UUID) (*kgModel.KindergartenModel, error) {
	var kg kgModel.KindergartenModel
	err := s.DB.WithContext(ctx).Where("kindergarten_id = ?", id).Take(&kg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKindergartenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kg, nil
}

// State: status deadline tanggal d untuk "sekarang"
func (s *Service) State(d time.Time) deadline.State {
	return s.Policy.Evaluate(d, s.Now())
}

// normalize: cek field yang tidak butuh DB (meal type, jumlah, nama kelas)
func normalize(kg *kgModel.KindergartenModel, in UpsertInput) (UpsertInput, error) {
	in.Date = dbtime.DateOf(in.Date, nil)
	in.ClassName = helper.NormalizeName(in.ClassName)
	in.MealType = strings.TrimSpace(in.MealType)
	if in.MealType == "" {
		in.MealType = mealtype.Normal
	}
	if !mealtype.IsAllowed(in.MealType, kg.ServiceLabels()) {
		return in, fmt.Errorf("%w: %s", ErrInvalidMealType, in.MealType)
	}
	if in.StudentCount < 0 || in.AllergyCount < 0 || in.TeacherCount < 0 {
		return in, ErrNegativeCount
	}
	return in, nil
}

// checkDeadline: admin (telepon ke kantor) melewati deadline
func (s *Service) checkDeadline(sess authMw.Session, date time.Time, confirm bool) (deadline.State, error) {
	st := s.State(date)
	if sess.IsAdmin() {
		return st, nil
	}
	switch st {
	case deadline.StrictLocked:
		return st, fmt.Errorf("%w (%s)", ErrStrictLocked, dbtime.FormatDate(date))
	case deadline.GraceLocked:
		if !confirm {
			return st, fmt.Errorf("%w (%s)", ErrGraceConfirmationRequired, dbtime.FormatDate(date))
		}
	}
	return st, nil
}

// resolveClass: classless → 共通; selain itu harus ada di roster yang berlaku
func resolveClass(roster *classService.Generation, className string) (string, error) {
	if roster.IsClassless() {
		return classModel.ClasslessName, nil
	}
	if roster.Find(className) == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	return className, nil
}

// Upsert: satu order per (fasilitas, tanggal, kelas).
// Semua prasyarat dicek sebelum menulis apa pun.
func (s *Service) Upsert(ctx context.Context, sess authMw.Session, kindergartenID uuid.UUID, in UpsertInput) (*UpsertResult, error) {
	kg, err := s.LoadKindergarten(ctx, kindergartenID)
	if err != nil {
		return nil, err
	}
	in, err = normalize(kg, in)
	if err != nil {
		return nil, err
	}
	if !kg.IsServiceDay(in.Date) {
		return nil, fmt.Errorf("%w (%s)", ErrNotServiceDay, dbtime.FormatDate(in.Date))
	}
	state, err := s.checkDeadline(sess, in.Date, in.ConfirmGrace)
	if err != nil {
		return nil, err
	}
	roster, _, err := s.Rosters.AsOf(ctx, kindergartenID, in.Date)
	if err != nil {
		return nil, err
	}
	if in.ClassName, err = resolveClass(roster, in.ClassName); err != nil {
		return nil, err
	}

	row := model.OrderModel{
		OrderKindergartenID: kindergartenID,
		OrderDate:           in.Date,
		OrderClassName:      in.ClassName,
		OrderMealType:       in.MealType,
		OrderStudentCount:   in.StudentCount,
		OrderAllergyCount:   in.AllergyCount,
		OrderTeacherCount:   in.TeacherCount,
		OrderMemo:           in.Memo,
	}

	res := &UpsertResult{Deadline: state}
	if in.OrderID != nil && *in.OrderID != uuid.Nil {
		existing, err := s.Orders.FindByID(ctx, nil, kindergartenID, *in.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, err
		}
		if !existing.OrderDate.Equal(in.Date) || existing.OrderClassName != in.ClassName {
			return nil, ErrOrderKeyMismatch
		}
		row.OrderID = existing.OrderID
		if err := s.Orders.UpdateByID(ctx, nil, &row); err != nil {
			return nil, err
		}
	} else {
		_, findErr := s.Orders.FindByKey(ctx, nil, kindergartenID, in.Date, in.ClassName)
		res.Created = errors.Is(findErr, gorm.ErrRecordNotFound)
		if err := s.Orders.Upsert(ctx, nil, &row); err != nil {
			return nil, err
		}
	}

	stored, err := s.Orders.FindByKey(ctx, nil, kindergartenID, in.Date, in.ClassName)
	if err != nil {
		return nil, err
	}
	res.Order = *stored

	if state == deadline.GraceLocked && !sess.IsAdmin() {
		s.notifyLateChange(ctx, kg, stored)
	}
	return res, nil
}

func (s *Service) notifyLateChange(ctx context.Context, kg *kgModel.KindergartenModel, o *model.OrderModel) {
	if s.Notifier == nil {
		return
	}
	details := fmt.Sprintf("日付: %s\nクラス: %s\n食事区分: %s\n園児: %d / アレルギー: %d / 先生: %d\nメモ: %s",
		dbtime.FormatDate(o.OrderDate), o.OrderClassName, o.OrderMealType,
		o.OrderStudentCount, o.OrderAllergyCount, o.OrderTeacherCount, o.OrderMemo)
	kgID := kg.KindergartenID
	if err := s.Notifier.NotifyAdmins(ctx, nil, notifModel.KindLateChange, kg.KindergartenName, &kgID, "直前変更", details); err != nil {
		log.Printf("[WARN] notifikasi direct change gagal: %v", err)
	}
}

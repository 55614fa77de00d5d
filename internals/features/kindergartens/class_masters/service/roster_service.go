package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mamamire_backend/internals/features/kindergartens/class_masters/model"
	"mamamire_backend/internals/features/kindergartens/class_masters/repository"
	helper "mamamire_backend/internals/helpers"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyClassName     = errors.New("クラス名が空です")
	ErrDuplicateClassName = errors.New("クラス名が重複しています")
	ErrReservedClassName  = errors.New("「共通」はクラス名として使用できません")
	ErrNegativeCount      = errors.New("人数は0以上で入力してください")
)

// ClassInput: satu kelas dalam full-replace roster
type ClassInput struct {
	ClassName    string
	Grade        string
	Floor        *string
	StudentCount int
	AllergyCount *int
	TeacherCount int
}

type RosterService struct {
	Repo *repository.ClassMasterRepository
	Loc  *time.Location
	Now  func() time.Time
}

func NewRosterService(db *gorm.DB, loc *time.Location) *RosterService {
	return &RosterService{Repo: repository.New(db), Loc: loc, Now: time.Now}
}

func (s *RosterService) today() time.Time { return dbtime.DateOf(s.Now(), s.Loc) }

// Generations: seluruh riwayat roster, urut effective_from lalu created_at
func (s *RosterService) Generations(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID) ([]Generation, []model.ClassMasterModel, error) {
	versions, err := s.Repo.ListVersions(ctx, tx, kindergartenID)
	if err != nil {
		return nil, nil, err
	}
	classes, err := s.Repo.ListClasses(ctx, tx, kindergartenID)
	if err != nil {
		return nil, nil, err
	}
	return BuildGenerations(versions, classes), classes, nil
}

// AsOf: roster yang berlaku di tanggal date (nil → classless, belum pernah ada roster)
func (s *RosterService) AsOf(ctx context.Context, kindergartenID uuid.UUID, date time.Time) (*Generation, []model.ClassMasterModel, error) {
	gens, history, err := s.Generations(ctx, nil, kindergartenID)
	if err != nil {
		return nil, nil, err
	}
	return ActiveGeneration(gens, date), history, nil
}

// Pending: versi roster yang effective_from-nya masih di depan
func (s *RosterService) Pending(ctx context.Context, kindergartenID uuid.UUID) ([]Generation, error) {
	gens, _, err := s.Generations(ctx, nil, kindergartenID)
	if err != nil {
		return nil, err
	}
	return PendingGenerations(gens, s.today()), nil
}

// Replace: full-replace roster → generasi baru. effectiveFrom nil = hari ini.
// tx boleh nil; kalau ada, dipakai apa adanya (caller yang commit/rollback).
func (s *RosterService) Replace(ctx context.Context, tx *gorm.DB, kindergartenID uuid.UUID, in []ClassInput, effectiveFrom *time.Time) (*Generation, error) {
	classes, err := NormalizeClasses(in)
	if err != nil {
		return nil, err
	}

	eff := s.today()
	if effectiveFrom != nil && !effectiveFrom.IsZero() {
		eff = dbtime.DateOf(*effectiveFrom, nil)
	}
	savedAt := s.Now().UTC()

	version := model.ClassRosterVersionModel{
		ClassRosterVersionID:             uuid.New(),
		ClassRosterVersionKindergartenID: kindergartenID,
		ClassRosterVersionEffectiveFrom:  eff,
		ClassRosterVersionClassCount:     len(classes),
		ClassRosterVersionCreatedAt:      savedAt,
	}
	rows := make([]model.ClassMasterModel, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, model.ClassMasterModel{
			ClassMasterKindergartenID:      kindergartenID,
			ClassMasterClassName:           c.ClassName,
			ClassMasterGrade:               c.Grade,
			ClassMasterFloor:               c.Floor,
			ClassMasterDefaultStudentCount: c.StudentCount,
			ClassMasterDefaultAllergyCount: c.AllergyCount,
			ClassMasterDefaultTeacherCount: c.TeacherCount,
			ClassMasterEffectiveFrom:       eff,
			ClassMasterCreatedAt:           savedAt,
		})
	}

	write := func(db *gorm.DB) error { return s.Repo.InsertGeneration(ctx, db, &version, rows) }
	if tx != nil {
		err = write(tx)
	} else {
		err = s.Repo.DB.WithContext(ctx).Transaction(write)
	}
	if err != nil {
		return nil, fmt.Errorf("simpan roster: %w", err)
	}
	return &Generation{Version: version, Classes: rows}, nil
}

// NormalizeClasses: NFKC nama kelas, tolak kosong/duplikat/共通/negatif.
// Alergi nil dibiarkan nil (resolver → 0).
func NormalizeClasses(in []ClassInput) ([]ClassInput, error) {
	out := make([]ClassInput, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c.ClassName = helper.NormalizeName(c.ClassName)
		c.Grade = helper.NormalizeName(c.Grade)
		switch {
		case c.ClassName == "":
			return nil, ErrEmptyClassName
		case c.ClassName == model.ClasslessName:
			return nil, ErrReservedClassName
		case seen[c.ClassName]:
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClassName, c.ClassName)
		}
		if c.StudentCount < 0 || c.TeacherCount < 0 || (c.AllergyCount != nil && *c.AllergyCount < 0) {
			return nil, fmt.Errorf("%w: %s", ErrNegativeCount, c.ClassName)
		}
		seen[c.ClassName] = true
		out = append(out, c)
	}
	return out, nil
}

// ToInputs: generasi → input (untuk replace dengan satu kelas diubah)
func ToInputs(g *Generation) []ClassInput {
	if g == nil {
		return nil
	}
	out := make([]ClassInput, 0, len(g.Classes))
	for _, c := range g.Classes {
		out = append(out, ClassInput{
			ClassName:    c.ClassMasterClassName,
			Grade:        c.ClassMasterGrade,
			Floor:        c.ClassMasterFloor,
			StudentCount: c.ClassMasterDefaultStudentCount,
			AllergyCount: c.ClassMasterDefaultAllergyCount,
			TeacherCount: c.ClassMasterDefaultTeacherCount,
		})
	}
	return out
}

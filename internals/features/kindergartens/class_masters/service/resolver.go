package service

import (
	"sort"
	"time"

	"mamamire_backend/internals/features/kindergartens/class_masters/model"
	"mamamire_backend/internals/features/orders/mealtype"

	"github.com/google/uuid"
)

// Defaults: nilai awal untuk (fasilitas, tanggal, kelas)
type Defaults struct {
	ClassName    string     `json:"class_name"`
	Grade        string     `json:"grade,omitempty"`
	MealType     string     `json:"meal_type"`
	StudentCount int        `json:"student_count"`
	AllergyCount int        `json:"allergy_count"`
	TeacherCount int        `json:"teacher_count"`
	Memo         string     `json:"memo"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
	FromOrder    bool       `json:"from_order"`
}

// ExistingOrder: order tersimpan; kalau ada, nilainya menang penuh atas default
type ExistingOrder struct {
	OrderID      uuid.UUID
	MealType     string
	StudentCount int
	AllergyCount int
	TeacherCount int
	Memo         string
}

// ResolveClassVersion memilih versi kelas untuk target:
// effective_from terakhir ≤ target (seri: created_at terakhir), kalau tidak ada → versi paling awal.
func ResolveClassVersion(history []model.ClassMasterModel, className string, target time.Time) *model.ClassMasterModel {
	var versions []model.ClassMasterModel
	for _, c := range history {
		if c.ClassMasterClassName == className {
			versions = append(versions, c)
		}
	}
	if len(versions) == 0 {
		return nil
	}
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if !a.ClassMasterEffectiveFrom.Equal(b.ClassMasterEffectiveFrom) {
			return a.ClassMasterEffectiveFrom.Before(b.ClassMasterEffectiveFrom)
		}
		return a.ClassMasterCreatedAt.Before(b.ClassMasterCreatedAt)
	})
	i := sort.Search(len(versions), func(i int) bool {
		return versions[i].ClassMasterEffectiveFrom.After(target)
	})
	if i == 0 {
		return &versions[0]
	}
	return &versions[i-1]
}

// Resolve: default kelas untuk target, ditimpa order yang sudah ada.
func Resolve(history []model.ClassMasterModel, className string, target time.Time, existing *ExistingOrder) Defaults {
	d := Defaults{ClassName: className, MealType: mealtype.Normal}
	if v := ResolveClassVersion(history, className, target); v != nil {
		d.Grade = v.ClassMasterGrade
		d.StudentCount = v.ClassMasterDefaultStudentCount
		d.AllergyCount = v.AllergyOrZero()
		d.TeacherCount = v.ClassMasterDefaultTeacherCount
	}
	return applyExisting(d, existing)
}

func applyExisting(d Defaults, existing *ExistingOrder) Defaults {
	if existing == nil {
		return d
	}
	id := existing.OrderID
	d.OrderID = &id
	d.MealType = existing.MealType
	d.StudentCount = existing.StudentCount
	d.AllergyCount = existing.AllergyCount
	d.TeacherCount = existing.TeacherCount
	d.Memo = existing.Memo
	d.FromOrder = true
	return d
}

// ResolveDay: satu entri per kelas di roster yang berlaku;
// classless → satu entri 共通 dengan default nol.
func ResolveDay(roster *Generation, history []model.ClassMasterModel, target time.Time, existing map[string]ExistingOrder) []Defaults {
	lookup := func(name string) *ExistingOrder {
		if e, ok := existing[name]; ok {
			return &e
		}
		return nil
	}

	if roster.IsClassless() {
		d := Defaults{ClassName: model.ClasslessName, MealType: mealtype.Normal}
		return []Defaults{applyExisting(d, lookup(model.ClasslessName))}
	}

	out := make([]Defaults, 0, len(roster.Classes))
	for _, c := range roster.Classes {
		out = append(out, Resolve(history, c.ClassMasterClassName, target, lookup(c.ClassMasterClassName)))
	}
	return out
}

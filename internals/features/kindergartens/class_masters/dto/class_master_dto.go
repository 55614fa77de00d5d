package dto

import (
	"time"

	"mamamire_backend/internals/features/kindergartens/class_masters/model"
	"mamamire_backend/internals/features/kindergartens/class_masters/service"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* ===== Request ===== */

type ClassMasterItem struct {
	ClassName           string  `json:"class_name"            validate:"required,max=80"`
	Grade               string  `json:"grade"                 validate:"max=40"`
	Floor               *string `json:"floor"                 validate:"omitempty,max=40"`
	DefaultStudentCount int     `json:"default_student_count" validate:"min=0,max=9999"`
	DefaultAllergyCount *int    `json:"default_allergy_count" validate:"omitempty,min=0,max=9999"`
	DefaultTeacherCount int     `json:"default_teacher_count" validate:"min=0,max=999"`
}

func (i ClassMasterItem) ToInput() service.ClassInput {
	return service.ClassInput{
		ClassName:    i.ClassName,
		Grade:        i.Grade,
		Floor:        i.Floor,
		StudentCount: i.DefaultStudentCount,
		AllergyCount: i.DefaultAllergyCount,
		TeacherCount: i.DefaultTeacherCount,
	}
}

func ToInputs(items []ClassMasterItem) []service.ClassInput {
	out := make([]service.ClassInput, 0, len(items))
	for _, it := range items {
		out = append(out, it.ToInput())
	}
	return out
}

// PUT: full-replace; classes kosong = mode classless
type ReplaceClassMastersRequest struct {
	EffectiveFrom *string           `json:"effective_from" validate:"omitempty,datetime=2006-01-02"`
	Classes       []ClassMasterItem `json:"classes"        validate:"max=200,dive"`
}

// PATCH /:class_name: laporan perubahan satu kelas
type PatchClassDefaultsRequest struct {
	Grade               *string `json:"grade"                 validate:"omitempty,max=40"`
	Floor               *string `json:"floor"                 validate:"omitempty,max=40"`
	DefaultStudentCount *int    `json:"default_student_count" validate:"omitempty,min=0,max=9999"`
	DefaultAllergyCount *int    `json:"default_allergy_count" validate:"omitempty,min=0,max=9999"`
	DefaultTeacherCount *int    `json:"default_teacher_count" validate:"omitempty,min=0,max=999"`
	EffectiveFrom       *string `json:"effective_from"        validate:"omitempty,datetime=2006-01-02"`
}

func (p *PatchClassDefaultsRequest) Apply(in *service.ClassInput) {
	if p.Grade != nil {
		in.Grade = *p.Grade
	}
	if p.Floor != nil {
		in.Floor = p.Floor
	}
	if p.DefaultStudentCount != nil {
		in.StudentCount = *p.DefaultStudentCount
	}
	if p.DefaultAllergyCount != nil {
		v := *p.DefaultAllergyCount
		in.AllergyCount = &v
	}
	if p.DefaultTeacherCount != nil {
		in.TeacherCount = *p.DefaultTeacherCount
	}
}

// ParseOptionalDate: nil/"" → nil
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := dbtime.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* ===== Response ===== */

type ClassMasterResponse struct {
	ClassName           string  `json:"class_name"`
	Grade               string  `json:"grade"`
	Floor               *string `json:"floor,omitempty"`
	DefaultStudentCount int     `json:"default_student_count"`
	DefaultAllergyCount int     `json:"default_allergy_count"`
	AllergyRecorded     bool    `json:"allergy_recorded"`
	DefaultTeacherCount int     `json:"default_teacher_count"`
}

func FromModel(m model.ClassMasterModel) ClassMasterResponse {
	return ClassMasterResponse{
		ClassName:           m.ClassMasterClassName,
		Grade:               m.ClassMasterGrade,
		Floor:               m.ClassMasterFloor,
		DefaultStudentCount: m.ClassMasterDefaultStudentCount,
		DefaultAllergyCount: m.AllergyOrZero(),
		AllergyRecorded:     m.ClassMasterDefaultAllergyCount != nil,
		DefaultTeacherCount: m.ClassMasterDefaultTeacherCount,
	}
}

type RosterResponse struct {
	AsOf            string                `json:"as_of,omitempty"`
	Classless       bool                  `json:"classless"`
	RosterVersionID *uuid.UUID            `json:"roster_version_id,omitempty"`
	EffectiveFrom   string                `json:"effective_from,omitempty"`
	SavedAt         *time.Time            `json:"saved_at,omitempty"`
	Classes         []ClassMasterResponse `json:"classes"`
}

func FromGeneration(g *service.Generation, asOf *time.Time) RosterResponse {
	out := RosterResponse{Classless: g.IsClassless(), Classes: []ClassMasterResponse{}}
	if asOf != nil {
		out.AsOf = dbtime.FormatDate(*asOf)
	}
	if g == nil {
		return out
	}
	id := g.Version.ClassRosterVersionID
	saved := g.Version.ClassRosterVersionCreatedAt
	out.RosterVersionID = &id
	out.EffectiveFrom = dbtime.FormatDate(g.Version.ClassRosterVersionEffectiveFrom)
	out.SavedAt = &saved
	for _, c := range g.Classes {
		out.Classes = append(out.Classes, FromModel(c))
	}
	return out
}

// PendingSnapshot: roster ber-effective_from di masa depan
type PendingSnapshot struct {
	Date            string                `json:"date"`
	RosterVersionID uuid.UUID             `json:"roster_version_id"`
	Classes         []ClassMasterResponse `json:"classes"`
}

func FromPending(gens []service.Generation) []PendingSnapshot {
	out := make([]PendingSnapshot, 0, len(gens))
	for _, g := range gens {
		snap := PendingSnapshot{
			Date:            dbtime.FormatDate(g.Version.ClassRosterVersionEffectiveFrom),
			RosterVersionID: g.Version.ClassRosterVersionID,
			Classes:         []ClassMasterResponse{},
		}
		for _, c := range g.Classes {
			snap.Classes = append(snap.Classes, FromModel(c))
		}
		out = append(out, snap)
	}
	return out
}

// file: internals/features/kindergartens/class_masters/model/class_master_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClasslessName: kelas virtual untuk fasilitas tanpa roster
const ClasslessName = "共通"

// ClassRosterVersionModel: satu "generasi" roster (satu kali full-replace).
// Generasi kosong = fasilitas kembali ke mode classless.
type ClassRosterVersionModel struct {
	ClassRosterVersionID             uuid.UUID `json:"class_roster_version_id"              gorm:"column:class_roster_version_id;type:uuid;primaryKey"`
	ClassRosterVersionKindergartenID uuid.UUID `json:"class_roster_version_kindergarten_id" gorm:"column:class_roster_version_kindergarten_id;type:uuid;not null;index:idx_roster_versions_kg_eff,priority:1"`
	ClassRosterVersionEffectiveFrom  time.Time `json:"class_roster_version_effective_from"  gorm:"column:class_roster_version_effective_from;type:date;not null;index:idx_roster_versions_kg_eff,priority:2"`
	ClassRosterVersionClassCount     int       `json:"class_roster_version_class_count"     gorm:"column:class_roster_version_class_count;not null"`
	ClassRosterVersionCreatedAt      time.Time `json:"class_roster_version_created_at"      gorm:"column:class_roster_version_created_at;not null"`
}

func (ClassRosterVersionModel) TableName() string { return "class_roster_versions" }

func (m *ClassRosterVersionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassRosterVersionID == uuid.Nil {
		m.ClassRosterVersionID = uuid.New()
	}
	return nil
}

// ClassMasterModel merepresentasikan tabel `class_masters` (append-only)
type ClassMasterModel struct {
	ClassMasterID              uuid.UUID `json:"class_master_id"                gorm:"column:class_master_id;type:uuid;primaryKey"`
	ClassMasterKindergartenID  uuid.UUID `json:"class_master_kindergarten_id"   gorm:"column:class_master_kindergarten_id;type:uuid;not null;index:idx_class_masters_kg_name,priority:1"`
	ClassMasterRosterVersionID uuid.UUID `json:"class_master_roster_version_id" gorm:"column:class_master_roster_version_id;type:uuid;not null;uniqueIndex:uq_class_masters_version_name,priority:1"`

	ClassMasterClassName string  `json:"class_master_class_name" gorm:"column:class_master_class_name;type:varchar(80);not null;uniqueIndex:uq_class_masters_version_name,priority:2;index:idx_class_masters_kg_name,priority:2"`
	ClassMasterGrade     string  `json:"class_master_grade"      gorm:"column:class_master_grade;type:varchar(40)"`
	ClassMasterFloor     *string `json:"class_master_floor,omitempty" gorm:"column:class_master_floor;type:varchar(40)"`

	ClassMasterDefaultStudentCount int  `json:"class_master_default_student_count" gorm:"column:class_master_default_student_count;not null"`
	ClassMasterDefaultAllergyCount *int `json:"class_master_default_allergy_count" gorm:"column:class_master_default_allergy_count"` // NULL = data lama
	ClassMasterDefaultTeacherCount int  `json:"class_master_default_teacher_count" gorm:"column:class_master_default_teacher_count;not null"`

	ClassMasterEffectiveFrom time.Time `json:"class_master_effective_from" gorm:"column:class_master_effective_from;type:date;not null"`
	ClassMasterCreatedAt     time.Time `json:"class_master_created_at"     gorm:"column:class_master_created_at;not null"`
}

func (ClassMasterModel) TableName() string { return "class_masters" }

func (m *ClassMasterModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassMasterID == uuid.Nil {
		m.ClassMasterID = uuid.New()
	}
	return nil
}

func (m *ClassMasterModel) AllergyOrZero() int {
	if m.ClassMasterDefaultAllergyCount == nil {
		return 0
	}
	return *m.ClassMasterDefaultAllergyCount
}

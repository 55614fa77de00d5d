// file: internals/features/orders/monthly_setups/model/monthly_setup_draft_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MonthlySetupDraftModel: draft alur Monthly Setup, satu per (fasilitas, bulan).
// Payload (roster, pilihan menu per hari, memo) disimpan sebagai JSONB.
type MonthlySetupDraftModel struct {
	MonthlySetupDraftID             uuid.UUID `json:"monthly_setup_draft_id"              gorm:"column:monthly_setup_draft_id;type:uuid;primaryKey"`
	MonthlySetupDraftKindergartenID uuid.UUID `json:"monthly_setup_draft_kindergarten_id" gorm:"column:monthly_setup_draft_kindergarten_id;type:uuid;not null;uniqueIndex:uq_monthly_setup_drafts_month,priority:1"`
	MonthlySetupDraftYear           int       `json:"monthly_setup_draft_year"            gorm:"column:monthly_setup_draft_year;not null;uniqueIndex:uq_monthly_setup_drafts_month,priority:2"`
	MonthlySetupDraftMonth          int       `json:"monthly_setup_draft_month"           gorm:"column:monthly_setup_draft_month;not null;uniqueIndex:uq_monthly_setup_drafts_month,priority:3"`

	MonthlySetupDraftState   string         `json:"monthly_setup_draft_state"   gorm:"column:monthly_setup_draft_state;type:varchar(30);not null"`
	MonthlySetupDraftPayload datatypes.JSON `json:"monthly_setup_draft_payload" gorm:"column:monthly_setup_draft_payload;type:jsonb;not null"`

	MonthlySetupDraftSubmittedAt *time.Time `json:"monthly_setup_draft_submitted_at,omitempty" gorm:"column:monthly_setup_draft_submitted_at"`
	MonthlySetupDraftCreatedAt   time.Time  `json:"monthly_setup_draft_created_at"             gorm:"column:monthly_setup_draft_created_at;autoCreateTime"`
	MonthlySetupDraftUpdatedAt   time.Time  `json:"monthly_setup_draft_updated_at"             gorm:"column:monthly_setup_draft_updated_at;autoUpdateTime"`
}

func (MonthlySetupDraftModel) TableName() string { return "monthly_setup_drafts" }

func (m *MonthlySetupDraftModel) BeforeCreate(tx *gorm.DB) error {
	if m.MonthlySetupDraftID == uuid.Nil {
		m.MonthlySetupDraftID = uuid.New()
	}
	return nil
}

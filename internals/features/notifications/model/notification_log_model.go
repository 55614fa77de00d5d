package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindMonthlySubmission = "monthly_submission"
	KindRosterChange      = "roster_change"
	KindLateChange        = "late_change"
	KindMonthlyReminder   = "monthly_reminder"
)

// NotificationLogModel: notifikasi keluar dicatat (bukan dikirim via SMTP)
type NotificationLogModel struct {
	NotificationLogID             uuid.UUID  `json:"notification_log_id"                        gorm:"column:notification_log_id;type:uuid;primaryKey"`
	NotificationLogKind           string     `json:"notification_log_kind"                      gorm:"column:notification_log_kind;type:varchar(40);not null;index"`
	NotificationLogRecipient      string     `json:"notification_log_recipient"                 gorm:"column:notification_log_recipient;type:text;not null"`
	NotificationLogSubject        string     `json:"notification_log_subject"                   gorm:"column:notification_log_subject;type:text;not null"`
	NotificationLogBody           string     `json:"notification_log_body"                      gorm:"column:notification_log_body;type:text;not null"`
	NotificationLogKindergartenID *uuid.UUID `json:"notification_log_kindergarten_id,omitempty" gorm:"column:notification_log_kindergarten_id;type:uuid;index"`
	NotificationLogCreatedAt      time.Time  `json:"notification_log_created_at"                gorm:"column:notification_log_created_at;autoCreateTime;index"`
}

func (NotificationLogModel) TableName() string { return "notification_logs" }

func (m *NotificationLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationLogID == uuid.Nil {
		m.NotificationLogID = uuid.New()
	}
	return nil
}

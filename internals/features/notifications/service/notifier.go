package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mamamire_backend/internals/features/notifications/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const adminFallbackRecipient = "admin"

type Notifier struct {
	DB  *gorm.DB
	Loc *time.Location
	Now func() time.Time
}

func NewNotifier(db *gorm.DB, loc *time.Location) *Notifier {
	return &Notifier{DB: db, Loc: loc, Now: time.Now}
}

// tx boleh nil → pakai n.DB
func (n *Notifier) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	db := n.DB
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx)
}

// Settings: baris system_settings; belum ada → default (tidak ditulis)
func (n *Notifier) Settings(ctx context.Context, tx *gorm.DB) (model.SystemSettingModel, error) {
	var s model.SystemSettingModel
	err := n.conn(ctx, tx).Where("system_setting_id = ?", model.SystemSettingRowID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DefaultSystemSetting(), nil
	}
	return s, err
}

// SaveSettings: upsert baris tunggal
func (n *Notifier) SaveSettings(ctx context.Context, s *model.SystemSettingModel) error {
	s.SystemSettingID = model.SystemSettingRowID
	return n.conn(ctx, nil).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "system_setting_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

func SplitEmails(raw string) []string {
	var out []string
	for _, e := range strings.Split(raw, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// NotifyAdmins mencatat satu log per email admin.
// Tanpa email terdaftar tetap dicatat dengan penerima "admin" agar tampil di dashboard.
func (n *Notifier) NotifyAdmins(ctx context.Context, tx *gorm.DB, kind, kindergartenName string, kindergartenID *uuid.UUID, action, details string) error {
	settings, err := n.Settings(ctx, tx)
	if err != nil {
		return err
	}
	recipients := SplitEmails(settings.SystemSettingAdminEmails)
	if len(recipients) == 0 {
		log.Println("[WARNING] No admin emails configured for notifications.")
		recipients = []string{adminFallbackRecipient}
	}

	subject := fmt.Sprintf("【ママミレ通知】%s: %s", kindergartenName, action)
	body := fmt.Sprintf("通知内容: %s\n幼稚園名: %s\n発生日時: %s\n\n詳細:\n%s\n\n---\nママミレ (MamaMiRe) システム\n",
		action, kindergartenName, n.Now().In(n.loc()).Format("2006/01/02 15:04"), details)

	rows := make([]model.NotificationLogModel, 0, len(recipients))
	for _, r := range recipients {
		rows = append(rows, model.NotificationLogModel{
			NotificationLogKind:           kind,
			NotificationLogRecipient:      r,
			NotificationLogSubject:        subject,
			NotificationLogBody:           body,
			NotificationLogKindergartenID: kindergartenID,
		})
	}
	if err := n.conn(ctx, tx).Create(&rows).Error; err != nil {
		return fmt.Errorf("catat notifikasi: %w", err)
	}
	log.Printf("[NOTIFICATION] %s → %d penerima: %s", kind, len(rows), subject)
	return nil
}

func (n *Notifier) loc() *time.Location {
	if n.Loc == nil {
		return time.UTC
	}
	return n.Loc
}

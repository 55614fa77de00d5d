package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"mamamire_backend/internals/databases/dbtest"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	"mamamire_backend/internals/features/notifications/model"
	orderModel "mamamire_backend/internals/features/orders/orders/model"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestParseReminderDays(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{"5,3", []int{5, 3}},
		{" 7 , 1 ", []int{7, 1}},
		{"", []int{5, 3}},
		{"a,3", []int{5, 3}},
		{"2,", []int{2}},
	}
	for _, tt := range tests {
		if got := ParseReminderDays(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseReminderDays(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestPlanReminder(t *testing.T) {
	tests := []struct {
		name      string
		today     time.Time
		day       int
		wantDue   bool
		wantLeft  int
		wantMonth time.Month
		wantYear  int
	}{
		{"five days before", dbtime.Date(2024, 3, 20), 25, true, 5, time.April, 2024},
		{"three days before", dbtime.Date(2024, 3, 22), 25, true, 3, time.April, 2024},
		{"four days before", dbtime.Date(2024, 3, 21), 25, false, 4, time.April, 2024},
		{"past deadline", dbtime.Date(2024, 3, 27), 25, false, -2, time.April, 2024},
		{"december rolls year", dbtime.Date(2024, 12, 20), 25, true, 5, time.January, 2025},
		{"invalid day falls back to 25", dbtime.Date(2024, 3, 20), 31, true, 5, time.April, 2024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PlanReminder(tt.today, tt.day, []int{5, 3})
			if p.Due != tt.wantDue || p.DaysLeft != tt.wantLeft {
				t.Fatalf("due=%v left=%d, want due=%v left=%d", p.Due, p.DaysLeft, tt.wantDue, tt.wantLeft)
			}
			if p.TargetMonth != tt.wantMonth || p.TargetYear != tt.wantYear {
				t.Fatalf("target %d/%d, want %d/%d", p.TargetYear, p.TargetMonth, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func newNotifier(t *testing.T, now time.Time) (*Notifier, *gorm.DB) {
	t.Helper()
	db, err := dbtest.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	n := NewNotifier(db, time.UTC)
	n.Now = func() time.Time { return now }
	return n, db
}

func createKG(t *testing.T, db *gorm.DB, name string, email *string, active bool) *kgModel.KindergartenModel {
	t.Helper()
	kg := &kgModel.KindergartenModel{
		KindergartenCode:         uuid.NewString()[:8],
		KindergartenName:         name,
		KindergartenLoginID:      uuid.NewString()[:8],
		KindergartenPasswordHash: "x",
		KindergartenCourseType:   "通常",
		KindergartenContactName:  strPtr("担当"),
		KindergartenContactEmail: email,
		KindergartenIsActive:     active,
	}
	kg.SetServiceDays(kgModel.DefaultServiceDays())
	if err := db.Create(kg).Error; err != nil {
		t.Fatalf("create kg: %v", err)
	}
	return kg
}

func TestRunMonthlyReminder(t *testing.T) {
	n, db := newNotifier(t, time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	pending := createKG(t, db, "未提出園", strPtr("pending@example.jp"), true)
	done := createKG(t, db, "提出済園", strPtr("done@example.jp"), true)
	createKG(t, db, "メールなし園", nil, true)
	createKG(t, db, "休止園", strPtr("inactive@example.jp"), false)

	if err := db.Create(&orderModel.OrderModel{
		OrderKindergartenID: done.KindergartenID,
		OrderDate:           dbtime.Date(2024, 4, 1),
		OrderClassName:      "共通",
		OrderMealType:       "通常",
	}).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	sent, err := n.RunMonthlyReminder(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	var logs []model.NotificationLogModel
	if err := db.Where("notification_log_kind = ?", model.KindMonthlyReminder).Find(&logs).Error; err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].NotificationLogRecipient != "pending@example.jp" {
		t.Fatalf("unexpected logs %+v", logs)
	}
	if logs[0].NotificationLogKindergartenID == nil || *logs[0].NotificationLogKindergartenID != pending.KindergartenID {
		t.Fatalf("log not linked to facility")
	}
}

func TestRunMonthlyReminder_NotDue(t *testing.T) {
	n, db := newNotifier(t, time.Date(2024, 3, 21, 9, 0, 0, 0, time.UTC))
	createKG(t, db, "未提出園", strPtr("pending@example.jp"), true)

	sent, err := n.RunMonthlyReminder(context.Background())
	if err != nil || sent != 0 {
		t.Fatalf("sent=%d err=%v, want nothing", sent, err)
	}
}

func TestNotifyAdmins(t *testing.T) {
	n, db := newNotifier(t, time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// tanpa email admin → penerima fallback
	if err := n.NotifyAdmins(ctx, nil, model.KindLateChange, "さくら", nil, "直前変更", "detail"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	var count int64
	db.Model(&model.NotificationLogModel{}).Where("notification_log_recipient = ?", adminFallbackRecipient).Count(&count)
	if count != 1 {
		t.Fatalf("fallback recipient rows = %d", count)
	}

	s := model.DefaultSystemSetting()
	s.SystemSettingAdminEmails = "a@example.jp, b@example.jp"
	if err := n.SaveSettings(ctx, &s); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := n.NotifyAdmins(ctx, nil, model.KindRosterChange, "さくら", nil, "クラス変更", "detail"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	db.Model(&model.NotificationLogModel{}).Where("notification_log_kind = ?", model.KindRosterChange).Count(&count)
	if count != 2 {
		t.Fatalf("want one row per admin email, got %d", count)
	}
}

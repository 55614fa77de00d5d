package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	"mamamire_backend/internals/features/notifications/model"
	orderModel "mamamire_backend/internals/features/orders/orders/model"
	"mamamire_backend/internals/helpers/dbtime"
)

// ParseReminderDays "5,3" → [5 3]; format rusak → default [5 3]
func ParseReminderDays(raw string) []int {
	var out []int
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return []int{5, 3}
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return []int{5, 3}
	}
	return out
}

// ReminderPlan: hari ini (tanggal lokal) vs tanggal deadline bulan berjalan.
// Pengingat untuk pesanan BULAN DEPAN dikirim saat sisa hari ada di reminderDays.
type ReminderPlan struct {
	Due         bool
	DaysLeft    int
	Deadline    time.Time
	TargetYear  int
	TargetMonth time.Month
}

func PlanReminder(today time.Time, deadlineDay int, reminderDays []int) ReminderPlan {
	if deadlineDay <= 0 || deadlineDay > 28 {
		deadlineDay = 25
	}
	deadline := dbtime.Date(today.Year(), today.Month(), deadlineDay)
	daysLeft := int(deadline.Sub(dbtime.Date(today.Year(), today.Month(), today.Day())).Hours() / 24)
	next := dbtime.Date(today.Year(), today.Month(), 1).AddDate(0, 1, 0)

	p := ReminderPlan{
		DaysLeft:    daysLeft,
		Deadline:    deadline,
		TargetYear:  next.Year(),
		TargetMonth: next.Month(),
	}
	for _, d := range reminderDays {
		if d == daysLeft {
			p.Due = true
			break
		}
	}
	return p
}

// RunMonthlyReminder: catat pengingat untuk fasilitas aktif yang belum submit bulan depan.
// Return jumlah pengingat yang dicatat.
func (n *Notifier) RunMonthlyReminder(ctx context.Context) (int, error) {
	settings, err := n.Settings(ctx, nil)
	if err != nil {
		return 0, err
	}
	today := dbtime.DateOf(n.Now(), n.loc())
	plan := PlanReminder(today, settings.SystemSettingMonthlyDeadlineDay, ParseReminderDays(settings.SystemSettingReminderDays))
	if !plan.Due {
		log.Printf("[REMINDER] No reminder scheduled for today (%d days until deadline).", plan.DaysLeft)
		return 0, nil
	}

	var kgs []kgModel.KindergartenModel
	if err := n.conn(ctx, nil).Where("kindergarten_is_active = ?", true).Find(&kgs).Error; err != nil {
		return 0, err
	}

	from, to := dbtime.MonthBounds(plan.TargetYear, plan.TargetMonth)
	sent := 0
	for _, kg := range kgs {
		var cnt int64
		if err := n.conn(ctx, nil).Model(&orderModel.OrderModel{}).
			Where("order_kindergarten_id = ? AND order_date >= ? AND order_date < ?", kg.KindergartenID, from, to).
			Count(&cnt).Error; err != nil {
			return sent, err
		}
		if cnt > 0 {
			continue
		}
		if kg.KindergartenContactEmail == nil || strings.TrimSpace(*kg.KindergartenContactEmail) == "" {
			log.Printf("[WARNING] No email for %s, skipping reminder.", kg.KindergartenName)
			continue
		}

		contact := ""
		if kg.KindergartenContactName != nil {
			contact = *kg.KindergartenContactName
		}
		kgID := kg.KindergartenID
		row := model.NotificationLogModel{
			NotificationLogKind:           model.KindMonthlyReminder,
			NotificationLogRecipient:      strings.TrimSpace(*kg.KindergartenContactEmail),
			NotificationLogSubject:        fmt.Sprintf("【ママミレリマインド】%d月分のご注文が未完了です", int(plan.TargetMonth)),
			NotificationLogBody:           reminderBody(kg.KindergartenName, contact, plan),
			NotificationLogKindergartenID: &kgID,
		}
		if err := n.conn(ctx, nil).Create(&row).Error; err != nil {
			return sent, err
		}
		sent++
	}
	log.Printf("[REMINDER] %d pengingat dicatat untuk %d/%d", sent, plan.TargetYear, int(plan.TargetMonth))
	return sent, nil
}

func reminderBody(name, contact string, p ReminderPlan) string {
	return fmt.Sprintf(`%s %s 様

いつも「ママミレ (MamaMiRe)」をご利用いただきありがとうございます。
%d月分のご注文内容の登録がまだ完了しておりません。

締め切り日: %d月%d日（残り%d日）

お早めにシステムよりマンスリー申請のお手続きをお願いいたします。

---
ママミレ (MamaMiRe) システム
`, name, contact, int(p.TargetMonth), int(p.Deadline.Month()), p.Deadline.Day(), p.DaysLeft)
}

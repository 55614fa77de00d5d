package scheduler

import (
	"context"
	"log"
	"time"

	"mamamire_backend/internals/configs"
	"mamamire_backend/internals/features/notifications/service"

	"github.com/robfig/cron/v3"
)

// RegisterMonthlyReminder: job harian, keputusan kirim/tidak ada di RunMonthlyReminder
func RegisterMonthlyReminder(c *cron.Cron, n *service.Notifier) (cron.EntryID, error) {
	return c.AddFunc(configs.ReminderCronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := n.RunMonthlyReminder(ctx); err != nil {
			log.Printf("[REMINDER] error: %v", err)
		}
	})
}

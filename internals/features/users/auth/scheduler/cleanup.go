package scheduler

import (
	"context"
	"log"
	"time"

	"mamamire_backend/internals/configs"
	authRepo "mamamire_backend/internals/features/users/auth/repository"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// RegisterBlacklistCleanup: hapus token blacklist yang sudah lewat TTL (default 7 hari setelah exp)
func RegisterBlacklistCleanup(c *cron.Cron, db *gorm.DB) (cron.EntryID, error) {
	ttlDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)
	return c.AddFunc(configs.CleanupCronSchedule, func() {
		CleanupBlacklist(db, time.Now().Add(-time.Duration(ttlDays)*24*time.Hour))
	})
}

func CleanupBlacklist(db *gorm.DB, before time.Time) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("[CLEANUP] Menjalankan pembersihan token_blacklist...")
	var total int64
	for {
		n, err := authRepo.PurgeBlacklist(ctx, db, before, 500)
		if err != nil {
			log.Printf("[CLEANUP ERROR] Gagal hapus token: %v", err)
			return total
		}
		total += n
		if n < 500 {
			break
		}
	}
	if total > 0 {
		log.Printf("[CLEANUP] %d token kadaluarsa dihapus", total)
	} else {
		log.Println("[CLEANUP] Tidak ada token yang memenuhi syarat dihapus")
	}
	return total
}

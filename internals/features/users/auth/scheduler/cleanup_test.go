package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mamamire_backend/internals/databases/dbtest"
	authModel "mamamire_backend/internals/features/users/auth/model"
	authRepo "mamamire_backend/internals/features/users/auth/repository"
)

func TestCleanupBlacklist(t *testing.T) {
	db, err := dbtest.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	ctx := context.Background()
	now := time.Now().UTC()

	// 600 token lama (lebih dari satu batch) + 2 yang masih berlaku
	for i := 0; i < 600; i++ {
		if err := authRepo.BlacklistToken(ctx, db, fmt.Sprintf("old-%d", i), now.Add(-10*24*time.Hour)); err != nil {
			t.Fatalf("blacklist: %v", err)
		}
	}
	for _, tok := range []string{"fresh-1", "fresh-2", "fresh-1"} {
		if err := authRepo.BlacklistToken(ctx, db, tok, now.Add(time.Hour)); err != nil {
			t.Fatalf("blacklist %s: %v", tok, err)
		}
	}

	if got := CleanupBlacklist(db, now.Add(-7*24*time.Hour)); got != 600 {
		t.Fatalf("purged %d, want 600", got)
	}
	var left int64
	db.Model(&authModel.TokenBlacklist{}).Unscoped().Count(&left)
	if left != 2 {
		t.Fatalf("remaining %d, want 2", left)
	}
	if got := CleanupBlacklist(db, now.Add(-7*24*time.Hour)); got != 0 {
		t.Fatalf("second run purged %d", got)
	}
}

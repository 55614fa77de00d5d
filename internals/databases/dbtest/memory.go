// Package dbtest: database SQLite in-memory untuk test repository/service/handler.
package dbtest

import (
	"fmt"
	"strings"
	"time"

	database "mamamire_backend/internals/databases"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// OpenMemory: shared cache per nama + AutoMigrate.
func OpenMemory(name string) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// satu koneksi: tx dan query biasa tidak saling mengunci tabel
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

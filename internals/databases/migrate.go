package database

import (
	"fmt"
	"log"

	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	notifModel "mamamire_backend/internals/features/notifications/model"
	monthlyModel "mamamire_backend/internals/features/orders/monthly_setups/model"
	orderModel "mamamire_backend/internals/features/orders/orders/model"
	authModel "mamamire_backend/internals/features/users/auth/model"

	"gorm.io/gorm"
)

// Models: urutan = urutan migrasi
func Models() []any {
	return []any{
		&kgModel.KindergartenModel{},
		&classModel.ClassRosterVersionModel{},
		&classModel.ClassMasterModel{},
		&orderModel.OrderModel{},
		&monthlyModel.MonthlySetupDraftModel{},
		&authModel.AdminUserModel{},
		&authModel.TokenBlacklist{},
		&notifModel.SystemSettingModel{},
		&notifModel.NotificationLogModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Printf("✅ AutoMigrate selesai (%d tabel)", len(Models()))
	return nil
}

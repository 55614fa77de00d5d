// internals/features/users/auth/repository/repository.go
package repository

import (
	"context"
	"time"

	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	authModel "mamamire_backend/internals/features/users/auth/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* ====================== KINDERGARTEN ====================== */

func FindKindergartenByLoginID(ctx context.Context, db *gorm.DB, loginID string) (*kgModel.KindergartenModel, error) {
	var kg kgModel.KindergartenModel
	if err := db.WithContext(ctx).
		Where("kindergarten_login_id = ?", loginID).
		Take(&kg).Error; err != nil {
		return nil, err
	}
	return &kg, nil
}

/* ====================== ADMIN ====================== */

func FindAdminByLoginID(ctx context.Context, db *gorm.DB, loginID string) (*authModel.AdminUserModel, error) {
	var u authModel.AdminUserModel
	if err := db.WithContext(ctx).
		Where("admin_user_login_id = ?", loginID).
		Take(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

/* ====================== BLACKLIST ====================== */

// BlacklistToken idempotent (ON CONFLICT DO NOTHING)
func BlacklistToken(ctx context.Context, db *gorm.DB, token string, expiredAt time.Time) error {
	row := authModel.TokenBlacklist{Token: token, ExpiredAt: expiredAt}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&row).Error
}

// PurgeBlacklist menghapus (hard) token yang expired sebelum `before`, per batch.
func PurgeBlacklist(ctx context.Context, db *gorm.DB, before time.Time, batch int) (int64, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Unscoped().
		Where("expired_at < ?", before).
		Limit(batch).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Unscoped().Delete(&authModel.TokenBlacklist{}, ids)
	return res.RowsAffected, res.Error
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUserModel: staf kantor (mengelola fasilitas & roster)
type AdminUserModel struct {
	AdminUserID           uuid.UUID `json:"admin_user_id"       gorm:"column:admin_user_id;type:uuid;primaryKey"`
	AdminUserLoginID      string    `json:"admin_user_login_id" gorm:"column:admin_user_login_id;type:varchar(80);not null;uniqueIndex:uq_admin_users_login_id"`
	AdminUserPasswordHash string    `json:"-"                   gorm:"column:admin_user_password_hash;type:text;not null"`
	AdminUserName         string    `json:"admin_user_name"     gorm:"column:admin_user_name;type:varchar(120);not null"`
	AdminUserEmail        *string   `json:"admin_user_email,omitempty" gorm:"column:admin_user_email;type:text"`
	AdminUserIsActive     bool      `json:"admin_user_is_active" gorm:"column:admin_user_is_active;not null"`

	AdminUserCreatedAt time.Time `json:"admin_user_created_at" gorm:"column:admin_user_created_at;autoCreateTime"`
	AdminUserUpdatedAt time.Time `json:"admin_user_updated_at" gorm:"column:admin_user_updated_at;autoUpdateTime"`
}

func (AdminUserModel) TableName() string { return "admin_users" }

func (m *AdminUserModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdminUserID == uuid.Nil {
		m.AdminUserID = uuid.New()
	}
	return nil
}

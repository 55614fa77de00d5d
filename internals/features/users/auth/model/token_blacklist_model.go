package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist: JWT yang sudah logout; dibersihkan cron setelah lewat TTL
type TokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:text;not null;uniqueIndex:uq_token_blacklist_token" json:"token"`
	ExpiredAt time.Time      `gorm:"not null;index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}

package admins

import (
	_ "embed"
	"log"

	authHelper "mamamire_backend/internals/features/users/auth/helper"
	authModel "mamamire_backend/internals/features/users/auth/model"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed data_admins.json
var seedData []byte

type AdminSeed struct {
	LoginID  string  `json:"login_id"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
}

func SeedAdmins(db *gorm.DB) {
	var seeds []AdminSeed
	if err := sonic.Unmarshal(seedData, &seeds); err != nil {
		log.Fatalf("❌ Gagal decode JSON seed admins: %v", err)
	}

	rows := make([]authModel.AdminUserModel, 0, len(seeds))
	for _, s := range seeds {
		hash, err := authHelper.HashPassword(s.Password)
		if err != nil {
			log.Fatalf("❌ Gagal hash password admin %s: %v", s.LoginID, err)
		}
		rows = append(rows, authModel.AdminUserModel{
			AdminUserLoginID:      s.LoginID,
			AdminUserPasswordHash: hash,
			AdminUserName:         s.Name,
			AdminUserEmail:        s.Email,
			AdminUserIsActive:     true,
		})
	}
	if len(rows) == 0 {
		return
	}
	// login_id sudah ada → dilewati (password tidak ditimpa)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_user_login_id"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		log.Fatalf("❌ Gagal seed admin: %v", res.Error)
	}
	log.Printf("✅ Seed admin selesai (%d baru)", res.RowsAffected)
}

package seeds

import (
	"log"

	"mamamire_backend/internals/configs"
	"mamamire_backend/internals/seeds/admins"
	"mamamire_backend/internals/seeds/kindergartens"

	"gorm.io/gorm"
)

// RunAllSeeds: aktif kalau RUN_SEEDS=true
func RunAllSeeds(db *gorm.DB) {
	if !configs.GetEnvBool("RUN_SEEDS", false) {
		return
	}
	log.Println("🌱 Menjalankan seeds...")

	//* Admin
	admins.SeedAdmins(db)

	//* Fasilitas + roster awal
	kindergartens.SeedKindergartens(db, configs.AppLocation)
}

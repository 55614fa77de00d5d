package kindergartens

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"time"

	classService "mamamire_backend/internals/features/kindergartens/class_masters/service"
	kgModel "mamamire_backend/internals/features/kindergartens/kindergartens/model"
	authHelper "mamamire_backend/internals/features/users/auth/helper"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

//go:embed data_kindergartens.json
var seedData []byte

type ClassSeed struct {
	ClassName    string  `json:"class_name"`
	Grade        string  `json:"grade"`
	Floor        *string `json:"floor"`
	StudentCount int     `json:"student_count"`
	AllergyCount *int    `json:"allergy_count"`
	TeacherCount int     `json:"teacher_count"`
}

type KindergartenSeed struct {
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	LoginID      string      `json:"login_id"`
	Password     string      `json:"password"`
	CourseType   string      `json:"course_type"`
	ServiceDays  []int       `json:"service_days"` // time.Weekday
	Services     []string    `json:"services"`
	HasSoup      bool        `json:"has_soup"`
	CurryTrigger *string     `json:"curry_trigger"`
	ContactName  *string     `json:"contact_name"`
	ContactEmail *string     `json:"contact_email"`
	Classes      []ClassSeed `json:"classes"`
}

// SeedKindergartens: fasilitas yang code-nya sudah ada dilewati.
// Roster awal berlaku sejak tanggal 1 bulan berjalan.
func SeedKindergartens(db *gorm.DB, loc *time.Location) {
	var seeds []KindergartenSeed
	if err := sonic.Unmarshal(seedData, &seeds); err != nil {
		log.Fatalf("❌ Gagal decode JSON seed kindergartens: %v", err)
	}

	ctx := context.Background()
	roster := classService.NewRosterService(db, loc)
	now := time.Now().In(roster.Loc)
	effFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for _, s := range seeds {
		var existing kgModel.KindergartenModel
		err := db.Where("kindergarten_code = ?", s.Code).Take(&existing).Error
		if err == nil {
			log.Printf("ℹ️ Kindergarten '%s' sudah ada, dilewati.", s.Code)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("❌ Gagal cek kindergarten %s: %v", s.Code, err)
		}

		hash, err := authHelper.HashPassword(s.Password)
		if err != nil {
			log.Fatalf("❌ Gagal hash password %s: %v", s.Code, err)
		}
		kg := kgModel.KindergartenModel{
			KindergartenCode:         s.Code,
			KindergartenName:         s.Name,
			KindergartenLoginID:      s.LoginID,
			KindergartenPasswordHash: hash,
			KindergartenCourseType:   s.CourseType,
			KindergartenHasSoup:      s.HasSoup,
			KindergartenCurryTrigger: s.CurryTrigger,
			KindergartenContactName:  s.ContactName,
			KindergartenContactEmail: s.ContactEmail,
			KindergartenIsActive:     true,
		}
		var days [7]bool
		for _, d := range s.ServiceDays {
			if d >= 0 && d < 7 {
				days[d] = true
			}
		}
		kg.SetServiceDays(days)
		kg.SetServiceLabels(s.Services)

		if err := db.Create(&kg).Error; err != nil {
			log.Fatalf("❌ Gagal insert kindergarten %s: %v", s.Code, err)
		}

		if len(s.Classes) > 0 {
			inputs := make([]classService.ClassInput, 0, len(s.Classes))
			for _, c := range s.Classes {
				inputs = append(inputs, classService.ClassInput{
					ClassName:    c.ClassName,
					Grade:        c.Grade,
					Floor:        c.Floor,
					StudentCount: c.StudentCount,
					AllergyCount: c.AllergyCount,
					TeacherCount: c.TeacherCount,
				})
			}
			if _, err := roster.Replace(ctx, nil, kg.KindergartenID, inputs, &effFrom); err != nil {
				log.Fatalf("❌ Gagal seed roster %s: %v", s.Code, err)
			}
		}
		log.Printf("✅ Seed kindergarten %s (%s) + %d kelas", s.Code, s.Name, len(s.Classes))
	}
}

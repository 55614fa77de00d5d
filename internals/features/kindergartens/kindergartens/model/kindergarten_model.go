// file: internals/features/kindergartens/kindergartens/model/kindergarten_model.go
package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KindergartenModel merepresentasikan tabel `kindergartens` (fasilitas / tenant)
type KindergartenModel struct {
	// PK & identitas
	KindergartenID   uuid.UUID `json:"kindergarten_id"   gorm:"column:kindergarten_id;type:uuid;primaryKey"`
	KindergartenCode string    `json:"kindergarten_code" gorm:"column:kindergarten_code;type:varchar(40);not null;uniqueIndex:uq_kindergartens_code"`
	KindergartenName string    `json:"kindergarten_name" gorm:"column:kindergarten_name;type:varchar(160);not null"`

	// Kredensial (hash tidak pernah diserialisasi)
	KindergartenLoginID      string `json:"kindergarten_login_id" gorm:"column:kindergarten_login_id;type:varchar(80);not null;uniqueIndex:uq_kindergartens_login_id"`
	KindergartenPasswordHash string `json:"-"                     gorm:"column:kindergarten_password_hash;type:text;not null"`

	KindergartenCourseType string `json:"kindergarten_course_type" gorm:"column:kindergarten_course_type;type:varchar(40);not null;default:'通常'"`

	// Hari layanan per weekday.
	// Sengaja tanpa tag default: gorm melewati nilai false saat insert kalau ada default.
	KindergartenServiceMon bool `json:"kindergarten_service_mon" gorm:"column:kindergarten_service_mon;not null"`
	KindergartenServiceTue bool `json:"kindergarten_service_tue" gorm:"column:kindergarten_service_tue;not null"`
	KindergartenServiceWed bool `json:"kindergarten_service_wed" gorm:"column:kindergarten_service_wed;not null"`
	KindergartenServiceThu bool `json:"kindergarten_service_thu" gorm:"column:kindergarten_service_thu;not null"`
	KindergartenServiceFri bool `json:"kindergarten_service_fri" gorm:"column:kindergarten_service_fri;not null"`
	KindergartenServiceSat bool `json:"kindergarten_service_sat" gorm:"column:kindergarten_service_sat;not null"`
	KindergartenServiceSun bool `json:"kindergarten_service_sun" gorm:"column:kindergarten_service_sun;not null"`

	// Label meal-type khusus fasilitas, mis. ["カレー","パン","誕生会"]
	KindergartenServices      datatypes.JSON `json:"kindergarten_services"       gorm:"column:kindergarten_services;type:jsonb"`
	KindergartenHasSoup       bool           `json:"kindergarten_has_soup"       gorm:"column:kindergarten_has_soup;not null"`
	KindergartenCurryTrigger  *string        `json:"kindergarten_curry_trigger,omitempty" gorm:"column:kindergarten_curry_trigger;type:text"`

	// Kontak
	KindergartenContactName  *string `json:"kindergarten_contact_name,omitempty"  gorm:"column:kindergarten_contact_name;type:text"`
	KindergartenContactEmail *string `json:"kindergarten_contact_email,omitempty" gorm:"column:kindergarten_contact_email;type:text"`
	KindergartenContactPhone *string `json:"kindergarten_contact_phone,omitempty" gorm:"column:kindergarten_contact_phone;type:text"`

	KindergartenIconURL  *string `json:"kindergarten_icon_url,omitempty" gorm:"column:kindergarten_icon_url;type:text"`
	KindergartenIsActive bool    `json:"kindergarten_is_active"          gorm:"column:kindergarten_is_active;not null"`

	// Audit
	KindergartenCreatedAt time.Time `json:"kindergarten_created_at" gorm:"column:kindergarten_created_at;autoCreateTime"`
	KindergartenUpdatedAt time.Time `json:"kindergarten_updated_at" gorm:"column:kindergarten_updated_at;autoUpdateTime"`
}

func (KindergartenModel) TableName() string { return "kindergartens" }

func (m *KindergartenModel) BeforeCreate(tx *gorm.DB) error {
	if m.KindergartenID == uuid.Nil {
		m.KindergartenID = uuid.New()
	}
	return nil
}

// DefaultServiceDays: Senin–Jumat
func DefaultServiceDays() [7]bool {
	return [7]bool{false, true, true, true, true, true, false}
}

// ServiceDays: flag layanan diindeks time.Weekday (0 = Minggu)
func (m *KindergartenModel) ServiceDays() [7]bool {
	return [7]bool{
		time.Sunday:    m.KindergartenServiceSun,
		time.Monday:    m.KindergartenServiceMon,
		time.Tuesday:   m.KindergartenServiceTue,
		time.Wednesday: m.KindergartenServiceWed,
		time.Thursday:  m.KindergartenServiceThu,
		time.Friday:    m.KindergartenServiceFri,
		time.Saturday:  m.KindergartenServiceSat,
	}
}

func (m *KindergartenModel) SetServiceDays(days [7]bool) {
	m.KindergartenServiceSun = days[time.Sunday]
	m.KindergartenServiceMon = days[time.Monday]
	m.KindergartenServiceTue = days[time.Tuesday]
	m.KindergartenServiceWed = days[time.Wednesday]
	m.KindergartenServiceThu = days[time.Thursday]
	m.KindergartenServiceFri = days[time.Friday]
	m.KindergartenServiceSat = days[time.Saturday]
}

func (m *KindergartenModel) IsServiceDay(date time.Time) bool {
	return m.ServiceDays()[date.Weekday()]
}

// ServiceLabels decode kolom JSON; data rusak dianggap kosong.
func (m *KindergartenModel) ServiceLabels() []string {
	if len(m.KindergartenServices) == 0 {
		return nil
	}
	var out []string
	if err := sonic.Unmarshal(m.KindergartenServices, &out); err != nil {
		return nil
	}
	return out
}

func (m *KindergartenModel) SetServiceLabels(labels []string) {
	if labels == nil {
		labels = []string{}
	}
	b, _ := sonic.Marshal(labels)
	m.KindergartenServices = datatypes.JSON(b)
}

package dto

import (
	"time"

	"mamamire_backend/internals/features/kindergartens/kindergartens/model"

	"github.com/google/uuid"
)

/* =======================================================
   SERVICE DAYS
   ======================================================= */

type ServiceDays struct {
	Mon bool `json:"mon"`
	Tue bool `json:"tue"`
	Wed bool `json:"wed"`
	Thu bool `json:"thu"`
	Fri bool `json:"fri"`
	Sat bool `json:"sat"`
	Sun bool `json:"sun"`
}

func (d ServiceDays) Flags() [7]bool {
	return [7]bool{
		time.Sunday:    d.Sun,
		time.Monday:    d.Mon,
		time.Tuesday:   d.Tue,
		time.Wednesday: d.Wed,
		time.Thursday:  d.Thu,
		time.Friday:    d.Fri,
		time.Saturday:  d.Sat,
	}
}

func ServiceDaysFromFlags(f [7]bool) ServiceDays {
	return ServiceDays{
		Mon: f[time.Monday], Tue: f[time.Tuesday], Wed: f[time.Wednesday],
		Thu: f[time.Thursday], Fri: f[time.Friday], Sat: f[time.Saturday], Sun: f[time.Sunday],
	}
}

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// PATCH /api/u/kindergarten: semua opsional; hanya yang != nil yang di-apply
type UpdateKindergartenRequest struct {
	Name         *string      `json:"kindergarten_name"          validate:"omitempty,min=1,max=160"`
	ServiceDays  *ServiceDays `json:"service_days"`
	Services     *[]string    `json:"kindergarten_services"      validate:"omitempty,max=20,dive,max=40"`
	HasSoup      *bool        `json:"kindergarten_has_soup"`
	CurryTrigger *string      `json:"kindergarten_curry_trigger" validate:"omitempty,max=200"`
	ContactName  *string      `json:"kindergarten_contact_name"  validate:"omitempty,max=120"`
	ContactEmail *string      `json:"kindergarten_contact_email" validate:"omitempty,email,max=200"`
	ContactPhone *string      `json:"kindergarten_contact_phone" validate:"omitempty,max=40"`
}

func (r *UpdateKindergartenRequest) Apply(m *model.KindergartenModel) {
	if r.Name != nil {
		m.KindergartenName = *r.Name
	}
	if r.ServiceDays != nil {
		m.SetServiceDays(r.ServiceDays.Flags())
	}
	if r.Services != nil {
		m.SetServiceLabels(*r.Services)
	}
	if r.HasSoup != nil {
		m.KindergartenHasSoup = *r.HasSoup
	}
	if r.CurryTrigger != nil {
		m.KindergartenCurryTrigger = r.CurryTrigger
	}
	if r.ContactName != nil {
		m.KindergartenContactName = r.ContactName
	}
	if r.ContactEmail != nil {
		m.KindergartenContactEmail = r.ContactEmail
	}
	if r.ContactPhone != nil {
		m.KindergartenContactPhone = r.ContactPhone
	}
}

// POST /api/a/kindergartens
type CreateKindergartenRequest struct {
	Code         string       `json:"kindergarten_code"          validate:"required,max=40"`
	Name         string       `json:"kindergarten_name"          validate:"required,max=160"`
	LoginID      string       `json:"kindergarten_login_id"      validate:"required,max=80"`
	Password     string       `json:"password"                   validate:"required,min=8,max=72"`
	CourseType   string       `json:"kindergarten_course_type"   validate:"omitempty,max=40"`
	ServiceDays  *ServiceDays `json:"service_days"`
	Services     []string     `json:"kindergarten_services"      validate:"max=20,dive,max=40"`
	HasSoup      bool         `json:"kindergarten_has_soup"`
	CurryTrigger *string      `json:"kindergarten_curry_trigger" validate:"omitempty,max=200"`
	ContactName  *string      `json:"kindergarten_contact_name"  validate:"omitempty,max=120"`
	ContactEmail *string      `json:"kindergarten_contact_email" validate:"omitempty,email,max=200"`
	ContactPhone *string      `json:"kindergarten_contact_phone" validate:"omitempty,max=40"`
}

func (r *CreateKindergartenRequest) ToModel() *model.KindergartenModel {
	m := &model.KindergartenModel{
		KindergartenCode:         r.Code,
		KindergartenName:         r.Name,
		KindergartenLoginID:      r.LoginID,
		KindergartenCourseType:   r.CourseType,
		KindergartenHasSoup:      r.HasSoup,
		KindergartenCurryTrigger: r.CurryTrigger,
		KindergartenContactName:  r.ContactName,
		KindergartenContactEmail: r.ContactEmail,
		KindergartenContactPhone: r.ContactPhone,
		KindergartenIsActive:     true,
	}
	if m.KindergartenCourseType == "" {
		m.KindergartenCourseType = "通常"
	}
	days := model.DefaultServiceDays()
	if r.ServiceDays != nil {
		days = r.ServiceDays.Flags()
	}
	m.SetServiceDays(days)
	m.SetServiceLabels(r.Services)
	return m
}

// PATCH /api/a/kindergartens/:id
type AdminUpdateKindergartenRequest struct {
	UpdateKindergartenRequest
	Code       *string `json:"kindergarten_code"        validate:"omitempty,min=1,max=40"`
	LoginID    *string `json:"kindergarten_login_id"    validate:"omitempty,min=1,max=80"`
	Password   *string `json:"password"                 validate:"omitempty,min=8,max=72"`
	CourseType *string `json:"kindergarten_course_type" validate:"omitempty,max=40"`
	IsActive   *bool   `json:"kindergarten_is_active"`
}

func (r *AdminUpdateKindergartenRequest) Apply(m *model.KindergartenModel) {
	r.UpdateKindergartenRequest.Apply(m)
	if r.Code != nil {
		m.KindergartenCode = *r.Code
	}
	if r.LoginID != nil {
		m.KindergartenLoginID = *r.LoginID
	}
	if r.CourseType != nil {
		m.KindergartenCourseType = *r.CourseType
	}
	if r.IsActive != nil {
		m.KindergartenIsActive = *r.IsActive
	}
}

/* =======================================================
   RESPONSE DTO
   ======================================================= */

type KindergartenResponse struct {
	KindergartenID           uuid.UUID   `json:"kindergarten_id"`
	KindergartenCode         string      `json:"kindergarten_code"`
	KindergartenName         string      `json:"kindergarten_name"`
	KindergartenLoginID      string      `json:"kindergarten_login_id"`
	KindergartenCourseType   string      `json:"kindergarten_course_type"`
	ServiceDays              ServiceDays `json:"service_days"`
	KindergartenServices     []string    `json:"kindergarten_services"`
	KindergartenHasSoup      bool        `json:"kindergarten_has_soup"`
	KindergartenCurryTrigger *string     `json:"kindergarten_curry_trigger,omitempty"`

	KindergartenContactName  *string `json:"kindergarten_contact_name,omitempty"`
	KindergartenContactEmail *string `json:"kindergarten_contact_email,omitempty"`
	KindergartenContactPhone *string `json:"kindergarten_contact_phone,omitempty"`

	KindergartenIconURL  *string   `json:"kindergarten_icon_url,omitempty"`
	KindergartenIsActive bool      `json:"kindergarten_is_active"`
	KindergartenCreated  time.Time `json:"kindergarten_created_at"`
	KindergartenUpdated  time.Time `json:"kindergarten_updated_at"`
}

func FromModel(m *model.KindergartenModel) KindergartenResponse {
	labels := m.ServiceLabels()
	if labels == nil {
		labels = []string{}
	}
	return KindergartenResponse{
		KindergartenID:           m.KindergartenID,
		KindergartenCode:         m.KindergartenCode,
		KindergartenName:         m.KindergartenName,
		KindergartenLoginID:      m.KindergartenLoginID,
		KindergartenCourseType:   m.KindergartenCourseType,
		ServiceDays:              ServiceDaysFromFlags(m.ServiceDays()),
		KindergartenServices:     labels,
		KindergartenHasSoup:      m.KindergartenHasSoup,
		KindergartenCurryTrigger: m.KindergartenCurryTrigger,
		KindergartenContactName:  m.KindergartenContactName,
		KindergartenContactEmail: m.KindergartenContactEmail,
		KindergartenContactPhone: m.KindergartenContactPhone,
		KindergartenIconURL:      m.KindergartenIconURL,
		KindergartenIsActive:     m.KindergartenIsActive,
		KindergartenCreated:      m.KindergartenCreatedAt,
		KindergartenUpdated:      m.KindergartenUpdatedAt,
	}
}

func FromModels(rows []model.KindergartenModel) []KindergartenResponse {
	out := make([]KindergartenResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

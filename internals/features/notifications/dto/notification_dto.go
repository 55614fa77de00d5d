package dto

import (
	"strings"

	"mamamire_backend/internals/features/notifications/model"
)

type PatchSystemSettingRequest struct {
	AdminEmails        *string `json:"admin_emails"         validate:"omitempty,max=2000"`
	ReminderDays       *string `json:"reminder_days"        validate:"omitempty,max=40"`
	MonthlyDeadlineDay *int    `json:"monthly_deadline_day" validate:"omitempty,min=1,max=28"`
}

func (r *PatchSystemSettingRequest) Apply(m *model.SystemSettingModel) {
	if r.AdminEmails != nil {
		m.SystemSettingAdminEmails = strings.TrimSpace(*r.AdminEmails)
	}
	if r.ReminderDays != nil {
		m.SystemSettingReminderDays = strings.TrimSpace(*r.ReminderDays)
	}
	if r.MonthlyDeadlineDay != nil {
		m.SystemSettingMonthlyDeadlineDay = *r.MonthlyDeadlineDay
	}
}

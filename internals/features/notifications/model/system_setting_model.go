package model

import "time"

const SystemSettingRowID = 1

// SystemSettingModel: satu baris konfigurasi kantor
type SystemSettingModel struct {
	SystemSettingID                 int       `json:"system_setting_id"                   gorm:"column:system_setting_id;primaryKey;autoIncrement:false"`
	SystemSettingAdminEmails        string    `json:"system_setting_admin_emails"         gorm:"column:system_setting_admin_emails;type:text"`
	SystemSettingReminderDays       string    `json:"system_setting_reminder_days"        gorm:"column:system_setting_reminder_days;type:varchar(40)"`
	SystemSettingMonthlyDeadlineDay int       `json:"system_setting_monthly_deadline_day" gorm:"column:system_setting_monthly_deadline_day"`
	SystemSettingUpdatedAt          time.Time `json:"system_setting_updated_at"           gorm:"column:system_setting_updated_at;autoUpdateTime"`
}

func (SystemSettingModel) TableName() string { return "system_settings" }

func DefaultSystemSetting() SystemSettingModel {
	return SystemSettingModel{
		SystemSettingID:                 SystemSettingRowID,
		SystemSettingReminderDays:       "5,3",
		SystemSettingMonthlyDeadlineDay: 25,
	}
}

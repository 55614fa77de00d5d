package dto

import (
	"mamamire_backend/internals/features/orders/monthly_setups/service"
)

type OpenDraftRequest struct {
	Year  int `json:"year"  validate:"required,min=2000,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

type RosterClassItem struct {
	ClassName    string  `json:"class_name"    validate:"required,max=80"`
	Grade        string  `json:"grade"         validate:"max=40"`
	Floor        *string `json:"floor"         validate:"omitempty,max=40"`
	StudentCount int     `json:"student_count" validate:"min=0,max=9999"`
	AllergyCount int     `json:"allergy_count" validate:"min=0,max=9999"`
	TeacherCount int     `json:"teacher_count" validate:"min=0,max=999"`
}

func ToRoster(items []RosterClassItem) []service.RosterClass {
	out := make([]service.RosterClass, 0, len(items))
	for _, it := range items {
		out = append(out, service.RosterClass{
			ClassName:    it.ClassName,
			Grade:        it.Grade,
			Floor:        it.Floor,
			StudentCount: it.StudentCount,
			AllergyCount: it.AllergyCount,
			TeacherCount: it.TeacherCount,
		})
	}
	return out
}

// PUT /:year/:month/roster (array kosong = classless)
type PatchRosterRequest struct {
	Roster []RosterClassItem `json:"roster" validate:"max=200,dive"`
}

// POST /:year/:month/days/:date/toggle; meal_type kosong = maju satu opsi
type ToggleDayRequest struct {
	MealType *string `json:"meal_type" validate:"omitempty,max=40"`
}

type MemoRequest struct {
	Memo string `json:"memo" validate:"max=2000"`
}

type DayChoiceItem struct {
	Date     string `json:"date"      validate:"required,datetime=2006-01-02"`
	MealType string `json:"meal_type" validate:"max=40"`
}

// POST /preview: stateless
type PreviewRequest struct {
	Year   int               `json:"year"   validate:"required,min=2000,max=2100"`
	Month  int               `json:"month"  validate:"required,min=1,max=12"`
	Roster []RosterClassItem `json:"roster" validate:"max=200,dive"`
	Days   []DayChoiceItem   `json:"days"   validate:"max=31,dive"`
	Memo   string            `json:"memo"   validate:"max=2000"`
}

func (r *PreviewRequest) ToPayload() service.Payload {
	days := make([]service.DayChoice, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, service.DayChoice{Date: d.Date, MealType: d.MealType})
	}
	return service.Payload{Roster: ToRoster(r.Roster), Days: days, Memo: r.Memo}
}

type PreviewResponse struct {
	ServiceDays int                    `json:"service_days"`
	Classes     int                    `json:"classes"`
	Orders      []service.PlannedOrder `json:"orders"`
}

func NewPreviewResponse(orders []service.PlannedOrder, roster []service.RosterClass) PreviewResponse {
	classes := len(roster)
	if classes == 0 {
		classes = 1
	}
	return PreviewResponse{ServiceDays: len(orders) / classes, Classes: classes, Orders: orders}
}

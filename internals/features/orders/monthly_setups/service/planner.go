package service

import (
	"time"

	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	"mamamire_backend/internals/features/orders/mealtype"
	"mamamire_backend/internals/helpers/dbtime"
)

// RosterClass: satu kelas hasil konfirmasi di langkah roster
type RosterClass struct {
	ClassName    string  `json:"class_name"`
	Grade        string  `json:"grade"`
	Floor        *string `json:"floor,omitempty"`
	StudentCount int     `json:"student_count"`
	AllergyCount int     `json:"allergy_count"`
	TeacherCount int     `json:"teacher_count"`
}

// DayChoice: pilihan menu untuk satu hari layanan
type DayChoice struct {
	Date     string `json:"date"`
	MealType string `json:"meal_type"`
}

type PlanInput struct {
	Year         int
	Month        time.Month
	ServiceFlags [7]bool // diindeks time.Weekday
	Roster       []RosterClass
	MealTypes    map[string]string // "YYYY-MM-DD" → meal type; kosong = 通常
	Memo         string
}

type PlannedOrder struct {
	Date         time.Time `json:"-"`
	DateStr      string    `json:"date"`
	ClassName    string    `json:"class_name"`
	MealType     string    `json:"meal_type"`
	StudentCount int       `json:"student_count"`
	AllergyCount int       `json:"allergy_count"`
	TeacherCount int       `json:"teacher_count"`
	Memo         string    `json:"memo"`
}

// ServiceDays: semua tanggal di bulan itu yang weekday-nya hari layanan
func ServiceDays(year int, month time.Month, flags [7]bool) []time.Time {
	first, next := dbtime.MonthBounds(year, month)
	var out []time.Time
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		if flags[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

// DefaultDays: setiap hari layanan dengan menu 通常
func DefaultDays(year int, month time.Month, flags [7]bool) []DayChoice {
	days := ServiceDays(year, month, flags)
	out := make([]DayChoice, 0, len(days))
	for _, d := range days {
		out = append(out, DayChoice{Date: dbtime.FormatDate(d), MealType: mealtype.Normal})
	}
	return out
}

// Plan: (hari layanan × kelas) → satu order per pasangan.
// Roster kosong = classless, satu order 共通 per hari dengan jumlah 0.
func Plan(in PlanInput) []PlannedOrder {
	roster := in.Roster
	if len(roster) == 0 {
		roster = []RosterClass{{ClassName: classModel.ClasslessName}}
	}
	days := ServiceDays(in.Year, in.Month, in.ServiceFlags)

	out := make([]PlannedOrder, 0, len(days)*len(roster))
	for _, d := range days {
		key := dbtime.FormatDate(d)
		mt := in.MealTypes[key]
		if mt == "" {
			mt = mealtype.Normal
		}
		for _, c := range roster {
			out = append(out, PlannedOrder{
				Date:         d,
				DateStr:      key,
				ClassName:    c.ClassName,
				MealType:     mt,
				StudentCount: c.StudentCount,
				AllergyCount: c.AllergyCount,
				TeacherCount: c.TeacherCount,
				Memo:         in.Memo,
			})
		}
	}
	return out
}

// MealTypeMap: []DayChoice → map untuk PlanInput
func MealTypeMap(days []DayChoice) map[string]string {
	out := make(map[string]string, len(days))
	for _, d := range days {
		out[d.Date] = d.MealType
	}
	return out
}

package service

import (
	"errors"
	"testing"
	"time"

	classModel "mamamire_backend/internals/features/kindergartens/class_masters/model"
	"mamamire_backend/internals/features/orders/mealtype"
)

var weekdays = [7]bool{false, true, true, true, true, true, false}

func TestServiceDays(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		flags [7]bool
		want  int
	}{
		{"feb 2023 weekdays", 2023, time.February, weekdays, 20},
		{"mar 2024 weekdays", 2024, time.March, weekdays, 21},
		{"leap feb 2024 weekdays", 2024, time.February, weekdays, 21},
		{"no service days", 2024, time.March, [7]bool{}, 0},
		{"saturdays only", 2024, time.March, [7]bool{time.Saturday: true}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ServiceDays(tt.year, tt.month, tt.flags)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, d := range got {
				if d.Month() != tt.month || !tt.flags[d.Weekday()] {
					t.Fatalf("unexpected day %s", d)
				}
			}
		})
	}
}

func TestPlan_TwoClassesTwentyDays(t *testing.T) {
	in := PlanInput{
		Year:         2023,
		Month:        time.February,
		ServiceFlags: weekdays,
		Roster: []RosterClass{
			{ClassName: "ひまわり", StudentCount: 10, AllergyCount: 1, TeacherCount: 2},
			{ClassName: "たんぽぽ", StudentCount: 8, AllergyCount: 0, TeacherCount: 2},
		},
	}
	out := Plan(in)
	if len(out) != 40 {
		t.Fatalf("want 40 orders, got %d", len(out))
	}
	perClass := map[string]int{}
	for _, o := range out {
		if o.MealType != mealtype.Normal {
			t.Fatalf("want 通常, got %q on %s", o.MealType, o.DateStr)
		}
		switch o.ClassName {
		case "ひまわり":
			if o.StudentCount != 10 || o.AllergyCount != 1 || o.TeacherCount != 2 {
				t.Fatalf("bad counts %+v", o)
			}
		case "たんぽぽ":
			if o.StudentCount != 8 || o.AllergyCount != 0 || o.TeacherCount != 2 {
				t.Fatalf("bad counts %+v", o)
			}
		default:
			t.Fatalf("unexpected class %q", o.ClassName)
		}
		perClass[o.ClassName]++
	}
	if perClass["ひまわり"] != 20 || perClass["たんぽぽ"] != 20 {
		t.Fatalf("uneven plan %v", perClass)
	}
}

func TestPlan_ClasslessAndMealTypes(t *testing.T) {
	days := DefaultDays(2023, time.February, weekdays)
	days[0].MealType = "カレー"
	days[1].MealType = mealtype.NoMeal

	out := Plan(PlanInput{
		Year:         2023,
		Month:        time.February,
		ServiceFlags: weekdays,
		MealTypes:    MealTypeMap(days),
		Memo:         "年間計画",
	})
	if len(out) != 20 {
		t.Fatalf("classless: want one order per day, got %d", len(out))
	}
	for _, o := range out {
		if o.ClassName != classModel.ClasslessName || o.StudentCount != 0 || o.Memo != "年間計画" {
			t.Fatalf("unexpected classless order %+v", o)
		}
	}
	if out[0].MealType != "カレー" || out[1].MealType != mealtype.NoMeal || out[2].MealType != mealtype.Normal {
		t.Fatalf("meal types not applied: %s %s %s", out[0].MealType, out[1].MealType, out[2].MealType)
	}
}

func TestStepTransitions(t *testing.T) {
	s, err := StepRosterEdit.Next()
	if err != nil || s != StepMealTypeSelection {
		t.Fatalf("roster → %s (%v)", s, err)
	}
	if s, err = s.Next(); err != nil || s != StepReview {
		t.Fatalf("meal → %s (%v)", s, err)
	}
	if _, err := StepReview.Next(); !errors.Is(err, ErrDraftTransition) {
		t.Fatalf("review.Next must go through submit, got %v", err)
	}
	if _, err := StepRosterEdit.Back(); !errors.Is(err, ErrDraftTransition) {
		t.Fatalf("roster.Back should fail, got %v", err)
	}
	if _, err := StepSubmitted.Back(); !errors.Is(err, ErrDraftTransition) {
		t.Fatalf("submitted.Back should fail, got %v", err)
	}
	if s, _ := StepReview.Back(); s != StepMealTypeSelection {
		t.Fatalf("review.Back = %s", s)
	}
	if err := StepReview.Require(StepRosterEdit); !errors.Is(err, ErrDraftTransition) {
		t.Fatalf("Require mismatch should fail")
	}
	if !StepSubmitted.Valid() || Step("bogus").Valid() {
		t.Fatalf("Valid() wrong")
	}
}

func TestNormalizeRoster(t *testing.T) {
	out, err := NormalizeRoster([]RosterClass{{ClassName: " ひまわり ", StudentCount: 3}})
	if err != nil || len(out) != 1 || out[0].ClassName != "ひまわり" {
		t.Fatalf("got %+v, %v", out, err)
	}
	if _, err := NormalizeRoster([]RosterClass{{ClassName: "共通"}}); err == nil {
		t.Fatalf("reserved name must be rejected")
	}
	out, err = NormalizeRoster(nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("empty roster should stay empty: %+v %v", out, err)
	}
}

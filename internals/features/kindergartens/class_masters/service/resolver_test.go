package service

import (
	"errors"
	"testing"
	"time"

	"mamamire_backend/internals/features/kindergartens/class_masters/model"
	"mamamire_backend/internals/features/orders/mealtype"
	"mamamire_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func classRow(name string, eff time.Time, created time.Time, students int, allergy *int, teachers int) model.ClassMasterModel {
	return model.ClassMasterModel{
		ClassMasterID:                  uuid.New(),
		ClassMasterClassName:           name,
		ClassMasterDefaultStudentCount: students,
		ClassMasterDefaultAllergyCount: allergy,
		ClassMasterDefaultTeacherCount: teachers,
		ClassMasterEffectiveFrom:       eff,
		ClassMasterCreatedAt:           created,
	}
}

func TestResolveClassVersion(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	history := []model.ClassMasterModel{
		classRow("ひよこ組", dbtime.Date(2024, 4, 1), base, 20, intPtr(1), 2),
		classRow("ひよこ組", dbtime.Date(2024, 2, 1), base, 15, nil, 1),
		// dua versi di tanggal yang sama: yang disimpan terakhir menang
		classRow("ひよこ組", dbtime.Date(2024, 2, 1), base.Add(time.Hour), 16, intPtr(2), 1),
		classRow("うさぎ組", dbtime.Date(2024, 2, 1), base, 30, nil, 3),
	}

	tests := []struct {
		name   string
		class  string
		target time.Time
		want   int // student count, -1 = nil
	}{
		{"before earliest falls back to earliest", "ひよこ組", dbtime.Date(2024, 1, 15), 15},
		{"same-day tie keeps latest saved", "ひよこ組", dbtime.Date(2024, 2, 1), 16},
		{"between versions", "ひよこ組", dbtime.Date(2024, 3, 31), 16},
		{"future version applies from its date", "ひよこ組", dbtime.Date(2024, 4, 1), 20},
		{"other class untouched", "うさぎ組", dbtime.Date(2024, 5, 1), 30},
		{"unknown class", "きりん組", dbtime.Date(2024, 5, 1), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveClassVersion(history, tt.class, tt.target)
			if tt.want == -1 {
				if got != nil {
					t.Fatalf("want nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("want version with %d students, got nil", tt.want)
			}
			if got.ClassMasterDefaultStudentCount != tt.want {
				t.Fatalf("students = %d, want %d", got.ClassMasterDefaultStudentCount, tt.want)
			}
		})
	}
}

func TestResolve_NilAllergyIsZero(t *testing.T) {
	history := []model.ClassMasterModel{
		classRow("ひよこ組", dbtime.Date(2024, 2, 1), time.Now(), 15, nil, 1),
	}
	d := Resolve(history, "ひよこ組", dbtime.Date(2024, 2, 5), nil)
	if d.AllergyCount != 0 || d.StudentCount != 15 || d.TeacherCount != 1 {
		t.Fatalf("unexpected defaults %+v", d)
	}
	if d.MealType != mealtype.Normal || d.FromOrder {
		t.Fatalf("want normal default, got %+v", d)
	}
}

func TestResolve_ExistingOrderWins(t *testing.T) {
	history := []model.ClassMasterModel{
		classRow("ひよこ組", dbtime.Date(2024, 2, 1), time.Now(), 15, intPtr(1), 1),
	}
	existing := &ExistingOrder{
		OrderID:      uuid.New(),
		MealType:     "カレー",
		StudentCount: 3,
		AllergyCount: 0,
		TeacherCount: 0,
		Memo:         "遠足",
	}
	d := Resolve(history, "ひよこ組", dbtime.Date(2024, 2, 5), existing)
	if !d.FromOrder || d.OrderID == nil || *d.OrderID != existing.OrderID {
		t.Fatalf("want order values, got %+v", d)
	}
	if d.StudentCount != 3 || d.AllergyCount != 0 || d.TeacherCount != 0 || d.MealType != "カレー" || d.Memo != "遠足" {
		t.Fatalf("order values not applied: %+v", d)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	history := []model.ClassMasterModel{
		classRow("ひよこ組", dbtime.Date(2024, 2, 1), time.Now(), 15, intPtr(1), 1),
	}
	target := dbtime.Date(2024, 2, 9)
	a := Resolve(history, "ひよこ組", target, nil)
	b := Resolve(history, "ひよこ組", target, nil)
	if a != b {
		t.Fatalf("resolve not stable: %+v vs %+v", a, b)
	}
}

func TestResolveDay_Classless(t *testing.T) {
	existing := map[string]ExistingOrder{
		model.ClasslessName: {OrderID: uuid.New(), MealType: mealtype.Normal, StudentCount: 40},
	}
	for _, roster := range []*Generation{nil, {}} {
		out := ResolveDay(roster, nil, dbtime.Date(2024, 2, 5), nil)
		if len(out) != 1 || out[0].ClassName != model.ClasslessName || out[0].StudentCount != 0 {
			t.Fatalf("want single zero 共通 entry, got %+v", out)
		}
		out = ResolveDay(roster, nil, dbtime.Date(2024, 2, 5), existing)
		if len(out) != 1 || out[0].StudentCount != 40 || !out[0].FromOrder {
			t.Fatalf("want 共通 from order, got %+v", out)
		}
	}
}

func TestResolveDay_OneEntryPerClass(t *testing.T) {
	eff := dbtime.Date(2024, 2, 1)
	gen := &Generation{Classes: []model.ClassMasterModel{
		classRow("うさぎ組", eff, time.Now(), 30, nil, 3),
		classRow("ひよこ組", eff, time.Now(), 15, intPtr(1), 1),
	}}
	out := ResolveDay(gen, gen.Classes, dbtime.Date(2024, 2, 5), nil)
	if len(out) != 2 {
		t.Fatalf("want 2 entries, got %d", len(out))
	}
	if out[0].ClassName != "うさぎ組" || out[1].ClassName != "ひよこ組" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestActiveGeneration(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v1 := model.ClassRosterVersionModel{ClassRosterVersionID: uuid.New(), ClassRosterVersionEffectiveFrom: dbtime.Date(2024, 2, 1), ClassRosterVersionCreatedAt: created}
	v2 := model.ClassRosterVersionModel{ClassRosterVersionID: uuid.New(), ClassRosterVersionEffectiveFrom: dbtime.Date(2024, 4, 1), ClassRosterVersionCreatedAt: created}
	// generasi kosong: fasilitas kembali classless
	v3 := model.ClassRosterVersionModel{ClassRosterVersionID: uuid.New(), ClassRosterVersionEffectiveFrom: dbtime.Date(2024, 4, 1), ClassRosterVersionCreatedAt: created.Add(time.Minute)}

	classes := []model.ClassMasterModel{
		{ClassMasterRosterVersionID: v1.ClassRosterVersionID, ClassMasterClassName: "ひよこ組"},
		{ClassMasterRosterVersionID: v2.ClassRosterVersionID, ClassMasterClassName: "うさぎ組"},
	}
	gens := BuildGenerations([]model.ClassRosterVersionModel{v3, v2, v1}, classes)

	if g := ActiveGeneration(gens, dbtime.Date(2024, 1, 10)); g == nil || g.Version.ClassRosterVersionID != v1.ClassRosterVersionID {
		t.Fatalf("before first version should fall back to earliest")
	}
	if g := ActiveGeneration(gens, dbtime.Date(2024, 3, 31)); g.Find("ひよこ組") == nil {
		t.Fatalf("want v1 active on 3/31")
	}
	g := ActiveGeneration(gens, dbtime.Date(2024, 4, 1))
	if g.Version.ClassRosterVersionID != v3.ClassRosterVersionID || !g.IsClassless() {
		t.Fatalf("want latest-saved empty generation on 4/1, got %+v", g.Version)
	}
	if ActiveGeneration(nil, dbtime.Date(2024, 4, 1)) != nil {
		t.Fatalf("no roster → nil")
	}

	pending := PendingGenerations(gens, dbtime.Date(2024, 3, 1))
	if len(pending) != 2 {
		t.Fatalf("want 2 pending, got %d", len(pending))
	}
}

func TestNormalizeClasses(t *testing.T) {
	tests := []struct {
		name    string
		in      []ClassInput
		wantErr error
	}{
		{"ok", []ClassInput{{ClassName: " ひよこ組 "}, {ClassName: "うさぎ組"}}, nil},
		{"empty name", []ClassInput{{ClassName: "  "}}, ErrEmptyClassName},
		{"reserved", []ClassInput{{ClassName: "共通"}}, ErrReservedClassName},
		{"duplicate after nfkc", []ClassInput{{ClassName: "Ａ組"}, {ClassName: "A組"}}, ErrDuplicateClassName},
		{"negative students", []ClassInput{{ClassName: "A", StudentCount: -1}}, ErrNegativeCount},
		{"negative allergy", []ClassInput{{ClassName: "A", AllergyCount: intPtr(-1)}}, ErrNegativeCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NormalizeClasses(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if out[0].ClassName != "ひよこ組" {
				t.Fatalf("name not trimmed: %q", out[0].ClassName)
			}
		})
	}
}

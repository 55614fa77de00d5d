package service

import (
	"sort"
	"time"

	"mamamire_backend/internals/features/kindergartens/class_masters/model"

	"github.com/google/uuid"
)

// Generation: satu versi roster lengkap beserta kelas-kelasnya
type Generation struct {
	Version model.ClassRosterVersionModel
	Classes []model.ClassMasterModel
}

func (g *Generation) IsClassless() bool { return g == nil || len(g.Classes) == 0 }

func (g *Generation) ClassNames() []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.Classes))
	for _, c := range g.Classes {
		out = append(out, c.ClassMasterClassName)
	}
	return out
}

func (g *Generation) Find(className string) *model.ClassMasterModel {
	if g == nil {
		return nil
	}
	for i := range g.Classes {
		if g.Classes[i].ClassMasterClassName == className {
			return &g.Classes[i]
		}
	}
	return nil
}

// BuildGenerations mengelompokkan kelas per versi; hasil urut (effective_from, created_at).
func BuildGenerations(versions []model.ClassRosterVersionModel, classes []model.ClassMasterModel) []Generation {
	byVersion := make(map[uuid.UUID][]model.ClassMasterModel, len(versions))
	for _, c := range classes {
		byVersion[c.ClassMasterRosterVersionID] = append(byVersion[c.ClassMasterRosterVersionID], c)
	}
	out := make([]Generation, 0, len(versions))
	for _, v := range versions {
		cs := byVersion[v.ClassRosterVersionID]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].ClassMasterClassName < cs[j].ClassMasterClassName })
		out = append(out, Generation{Version: v, Classes: cs})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return versionLess(out[i].Version, out[j].Version)
	})
	return out
}

func versionLess(a, b model.ClassRosterVersionModel) bool {
	if !a.ClassRosterVersionEffectiveFrom.Equal(b.ClassRosterVersionEffectiveFrom) {
		return a.ClassRosterVersionEffectiveFrom.Before(b.ClassRosterVersionEffectiveFrom)
	}
	return a.ClassRosterVersionCreatedAt.Before(b.ClassRosterVersionCreatedAt)
}

// ActiveGeneration: effective_from terakhir ≤ asOf (seri: simpan terakhir).
// Kalau tidak ada yang memenuhi → generasi paling awal. nil kalau belum ada roster.
// gens harus sudah urut (BuildGenerations).
func ActiveGeneration(gens []Generation, asOf time.Time) *Generation {
	if len(gens) == 0 {
		return nil
	}
	// index pertama dengan effective_from > asOf
	i := sort.Search(len(gens), func(i int) bool {
		return gens[i].Version.ClassRosterVersionEffectiveFrom.After(asOf)
	})
	if i == 0 {
		return &gens[0]
	}
	return &gens[i-1]
}

// PendingGenerations: versi yang belum berlaku per today
func PendingGenerations(gens []Generation, today time.Time) []Generation {
	var out []Generation
	for _, g := range gens {
		if g.Version.ClassRosterVersionEffectiveFrom.After(today) {
			out = append(out, g)
		}
	}
	return out
}

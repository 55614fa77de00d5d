package mealtype

import "strings"

const (
	Normal = "通常"
	NoMeal = "飯なし"
)

// Options: [通常] + services (tanpa duplikat/kosong) + [飯なし]
func Options(services []string) []string {
	out := []string{Normal}
	seen := map[string]bool{Normal: true, NoMeal: true}
	for _, s := range services {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return append(out, NoMeal)
}

// Next: maju satu langkah, wrap ke awal. current tak dikenal → opsi pertama.
func Next(current string, options []string) string {
	if len(options) == 0 {
		return Normal
	}
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func IsAllowed(mealType string, services []string) bool {
	for _, o := range Options(services) {
		if o == mealType {
			return true
		}
	}
	return false
}

package helper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName: NFKC + trim + kompres spasi.
// Dipakai untuk nama kelas & login id (全角/半角 disamakan).
func NormalizeName(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

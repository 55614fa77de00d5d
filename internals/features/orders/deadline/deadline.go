// Package deadline mengklasifikasi tanggal layanan terhadap waktu sekarang:
// Open, GraceLocked (butuh konfirmasi), atau StrictLocked (tolak).
package deadline

import (
	"time"
)

type State string

const (
	Open         State = "open"
	GraceLocked  State = "grace_locked"
	StrictLocked State = "strict_locked"
)

// Policy: offset dihitung mundur dari tanggal layanan, jam lokal di Location.
type Policy struct {
	StrictDaysBefore int
	StrictHour       int
	GraceDaysBefore  int
	GraceHour        int
	Location         *time.Location
}

// DefaultPolicy: H-1 15:00 strict, H-3 18:00 grace.
func DefaultPolicy(loc *time.Location) Policy {
	return Policy{
		StrictDaysBefore: 1,
		StrictHour:       15,
		GraceDaysBefore:  3,
		GraceHour:        18,
		Location:         loc,
	}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// StrictDeadline: serviceDate - StrictDaysBefore hari, jam StrictHour:00 lokal.
// Hanya Y/M/D dari serviceDate yang dipakai.
func (p Policy) StrictDeadline(serviceDate time.Time) time.Time {
	return p.at(serviceDate, p.StrictDaysBefore, p.StrictHour)
}

func (p Policy) GraceDeadline(serviceDate time.Time) time.Time {
	return p.at(serviceDate, p.GraceDaysBefore, p.GraceHour)
}

func (p Policy) at(serviceDate time.Time, daysBefore, hour int) time.Time {
	y, m, d := serviceDate.Date()
	return time.Date(y, m, d-daysBefore, hour, 0, 0, 0, p.loc())
}

// Evaluate: now >= strict → StrictLocked; now >= grace → GraceLocked; else Open.
func (p Policy) Evaluate(serviceDate, now time.Time) State {
	if !now.Before(p.StrictDeadline(serviceDate)) {
		return StrictLocked
	}
	if !now.Before(p.GraceDeadline(serviceDate)) {
		return GraceLocked
	}
	return Open
}

// Evaluate memakai DefaultPolicy di zona loc.
func Evaluate(serviceDate, now time.Time, loc *time.Location) State {
	return DefaultPolicy(loc).Evaluate(serviceDate, now)
}

func (s State) Editable() bool { return s != StrictLocked }

func (s State) NeedsConfirmation() bool { return s == GraceLocked }

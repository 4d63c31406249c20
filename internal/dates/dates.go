// Package dates is the calendar-day date model underneath the schedule
// engine. All values are local-midnight time.Time; arithmetic is calendar
// based and carries no time-of-day component.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

const isoLayout = "2006-01-02"

var (
	isoPattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	slashPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
)

// Parse converts a date string into a local-midnight time. It accepts
// canonical ISO YYYY-MM-DD and the dashboard's display formats DD/MM/YYYY
// and DD/MM/YY (two-digit years are 2000+YY). The second return is false
// when the string matches no supported format or names an impossible date;
// callers must handle that explicitly rather than trusting the zero value.
func Parse(raw string) (time.Time, bool) {
	if m := isoPattern.FindStringSubmatch(raw); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return newLocalDate(y, mo, d)
	}
	if m := slashPattern.FindStringSubmatch(raw); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			y += 2000
		}
		return newLocalDate(y, mo, d)
	}
	return time.Time{}, false
}

// newLocalDate builds the date from local calendar fields. Construction goes
// through time.Date rather than a UTC parse so midnight stays midnight in
// zones behind UTC. time.Date normalizes overflow (e.g. Feb 31), so the
// fields are checked back to reject impossible dates.
func newLocalDate(y, mo, d int) (time.Time, bool) {
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.Local)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Midnight truncates t to local midnight of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the signed calendar-day offset from a to b.
// Rounding absorbs the one-hour skew a DST transition introduces.
func DaysBetween(a, b time.Time) int {
	diff := Midnight(b).Sub(Midnight(a))
	return int(math.Round(diff.Hours() / 24))
}

// DurationDays returns the inclusive day count of [start, end]: the same
// day counts as 1. An inverted range clamps to 0 rather than going negative.
func DurationDays(start, end time.Time) int {
	days := DaysBetween(start, end) + 1
	if days < 0 {
		return 0
	}
	return days
}

// AddDays returns the local midnight n calendar days after t (n may be
// negative).
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// IsWeekend reports whether t falls on a Saturday or Sunday. Weekends are
// flagged for display only; duration math does not exclude them.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatISO renders the canonical YYYY-MM-DD form used on every boundary.
func FormatISO(t time.Time) string {
	return t.Format(isoLayout)
}

// FormatShort renders the compact DD/MM form used in timeline headers.
func FormatShort(t time.Time) string {
	return t.Format("02/01")
}

var thaiMonths = [...]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// FormatThai renders the localized display form with an abbreviated Thai
// month name and the Buddhist-era year, e.g. "5 ม.ค. 2567".
func FormatThai(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year()+543)
}

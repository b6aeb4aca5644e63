// Package dateutil provides the pure calendar arithmetic the domain runs
// on: day shifts, ISO and display formatting, day counts until a target
// date, and due-date classification. All functions are side-effect free and
// degrade to an "invalid/none" result on unparseable input instead of
// returning errors; persistence-facing validation happens in the services.
//
// Dates travel through the application as ISO `YYYY-MM-DD` strings. The
// "today" reference is always passed in explicitly so callers and tests can
// pin the clock.
package dateutil

import (
	"fmt"
	"time"
)

// ISO is the wire and storage layout for dates.
const ISO = "2006-01-02"

// DueStatus classifies a due date relative to today.
type DueStatus string

// Due date classes, in increasing order of comfort.
const (
	DueNone    DueStatus = "none"    // no or invalid date
	DueOverdue DueStatus = "overdue" // target date has passed
	DueSoon    DueStatus = "soon"    // due within the alert window
	DueOK      DueStatus = "ok"      // comfortably in the future
)

// DefaultAlertDays is the alert window used when callers do not override it.
const DefaultAlertDays = 7

// ParseISO parses an ISO date string. The zero time and false are returned
// for empty or malformed input.
func ParseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidISO reports whether s is a well-formed ISO date.
func ValidISO(s string) bool {
	_, ok := ParseISO(s)
	return ok
}

// AddDays returns t shifted by n calendar days (n may be negative).
// time.Date normalizes out-of-range days, so month and year boundaries roll
// over correctly, including leap days.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// AddDaysISO shifts an ISO date string by n days. It returns "" and false
// when the input does not parse.
func AddDaysISO(s string, n int) (string, bool) {
	t, ok := ParseISO(s)
	if !ok {
		return "", false
	}
	return FormatISO(AddDays(t, n)), true
}

// FormatISO renders t as YYYY-MM-DD using its calendar fields.
func FormatISO(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// FormatDisplay renders an ISO date as DD/MM/YYYY for display. Empty or
// invalid input yields the "-" placeholder.
func FormatDisplay(s string) string {
	t, ok := ParseISO(s)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// dayUTC projects the calendar fields of t onto a UTC midnight. Day counts
// are taken between such projections so that mixed locations and DST shifts
// can never skew the difference.
func dayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil counts the calendar days from today to the target ISO date:
// negative when the target has passed, zero for today. It returns nil for
// empty or invalid input.
func DaysUntil(today time.Time, target string) *int {
	t, ok := ParseISO(target)
	if !ok {
		return nil
	}
	d := int(dayUTC(t).Sub(dayUTC(today)).Hours() / 24)
	return &d
}

// ClassifyDue maps a due date to its alert class using thresholdDays as the
// "soon" window: DueNone for missing/invalid dates, DueOverdue when the
// date has passed, DueSoon within [0, thresholdDays], DueOK beyond.
func ClassifyDue(today time.Time, target string, thresholdDays int) DueStatus {
	d := DaysUntil(today, target)
	switch {
	case d == nil:
		return DueNone
	case *d < 0:
		return DueOverdue
	case *d <= thresholdDays:
		return DueSoon
	default:
		return DueOK
	}
}

// Progress returns the elapsed fraction of the [start, end] ISO interval at
// today, clamped to [0, 1]. Missing or invalid bounds, or an empty
// interval, yield 0.
func Progress(today time.Time, start, end string) float64 {
	s, okS := ParseISO(start)
	e, okE := ParseISO(end)
	if !okS || !okE || !e.After(s) {
		return 0
	}
	total := dayUTC(e).Sub(dayUTC(s)).Hours() / 24
	elapsed := dayUTC(today).Sub(dayUTC(s)).Hours() / 24
	p := elapsed / total
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

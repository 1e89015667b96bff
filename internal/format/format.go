// Package format converts between wire-format field values and the
// edit/display strings shown in information cards. All functions are pure;
// anything that is not a number or a valid date passes through unchanged
// rather than erroring.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// WireDateLayout is the date format the backend speaks, in and out.
	WireDateLayout = "2006-01-02"
	// DisplayDateLayout is what users see and type into date fields.
	DisplayDateLayout = "01/02/2006"
)

// Comma renders a wire number as a grouped edit string, e.g. 1234567.5 -> "1,234,567.5".
func Comma(v float64) string {
	return humanize.Commaf(v)
}

// CommaWithDigits renders a wire number with a fixed number of decimals.
func CommaWithDigits(v float64, decimals int) string {
	return humanize.CommafWithDigits(v, decimals)
}

// GroupDigits formats a numeric string with thousands separators.
// Non-numeric input is passed through untouched.
func GroupDigits(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		return s
	}
	return humanize.Commaf(v)
}

// ParseFloat parses an edit string back to a wire number, stripping
// thousands separators first.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

// ParseInt parses an edit string to an integer, stripping separators.
func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
}

// SanitizePhone strips everything but digits and keeps at most 10 of them.
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

// FormatPhone groups a 10-digit phone number as "(123) 456-7890".
// Anything that does not sanitize to exactly 10 digits passes through.
func FormatPhone(s string) string {
	digits := SanitizePhone(s)
	if len(digits) != 10 {
		return s
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// ParseWireDate parses a YYYY-MM-DD wire date. The returned bool is false
// for empty or malformed input.
func ParseWireDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(WireDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDisplayDate parses a MM/DD/YYYY edit string.
func ParseDisplayDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DisplayDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayDate converts a wire date to display form. Invalid input renders
// empty rather than throwing it back at the user.
func DisplayDate(wire string) string {
	t, ok := ParseWireDate(wire)
	if !ok {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// WireDate converts a display-format edit string back to the wire format.
// Returns "" for anything that does not parse.
func WireDate(display string) string {
	t, ok := ParseDisplayDate(display)
	if !ok {
		return ""
	}
	return t.Format(WireDateLayout)
}

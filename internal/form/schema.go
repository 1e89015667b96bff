package form

import (
	"fmt"
	"strings"

	"griddesk/internal/format"
)

// Control names the input behavior of a field. Every control renders as a
// text input in the console; the control decides conversion and validation.
type Control int

const (
	ControlText Control = iota
	ControlNumber
	ControlDate
	ControlPhone
	ControlIP
	ControlEmail
	ControlURL
)

// Field describes one editable field of a section.
type Field struct {
	Key         string // wire key in the section record and the update payload
	Label       string
	Control     Control
	Rules       []Rule
	Placeholder string
	Decimals    int // display precision for number controls
}

// Fallbacks are the toast messages used when the backend answer carries none.
type Fallbacks struct {
	SaveSuccess string
	SaveError   string
}

// Schema is the declarative description of one card's form.
type Schema struct {
	Section   string // wire name, e.g. "site_lease"
	Title     string // card title, e.g. "Site Lease"
	Fields    []Field
	Fallbacks Fallbacks
}

// TextControlCount reports how many input controls the schema renders.
func (s Schema) TextControlCount() int {
	return len(s.Fields)
}

// Keys returns the wire keys of all fields, in render order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// EditValue derives the edit-buffer string for one field from a record.
// Missing and null values become "". Numbers come back grouped, dates in
// MM/DD/YYYY, phones as bare digits.
func EditValue(f Field, rec map[string]any) string {
	v, ok := rec[f.Key]
	if !ok || v == nil {
		return ""
	}
	switch f.Control {
	case ControlNumber:
		switch n := v.(type) {
		case float64:
			return format.CommaWithDigits(n, f.Decimals)
		case int:
			return format.Comma(float64(n))
		case int64:
			return format.Comma(float64(n))
		case string:
			return format.GroupDigits(n)
		default:
			return fmt.Sprint(v)
		}
	case ControlDate:
		if s, ok := v.(string); ok {
			return format.DisplayDate(s)
		}
		return ""
	case ControlPhone:
		return format.SanitizePhone(fmt.Sprint(v))
	default:
		return fmt.Sprint(v)
	}
}

// WireValue converts an edit string to the value submitted for the field.
// Empty input always becomes nil so a cleared field travels as null.
func WireValue(f Field, edit string) any {
	edit = strings.TrimSpace(edit)
	if edit == "" {
		return nil
	}
	switch f.Control {
	case ControlNumber:
		if f.Decimals == 0 {
			if n, err := format.ParseInt(edit); err == nil {
				return n
			}
		}
		if n, err := format.ParseFloat(edit); err == nil {
			return n
		}
		return edit
	case ControlDate:
		if wire := format.WireDate(edit); wire != "" {
			return wire
		}
		return edit
	case ControlPhone:
		return format.SanitizePhone(edit)
	default:
		return edit
	}
}

// displayValue renders an edit string for the read-only view. Only phones
// differ from their edit shape.
func displayValue(f Field, edit string) string {
	if f.Control == ControlPhone {
		return format.FormatPhone(edit)
	}
	return edit
}

package form

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"griddesk/internal/format"
)

// Rule pairs a validator tag with the human-readable message shown when it
// fails. Rules run in order; the first failure is the field's displayed error.
type Rule struct {
	Tag     string
	Message string
}

var (
	engineOnce sync.Once
	engine     *validator.Validate

	// Stricter than the everyday email check: no consecutive dots, no
	// leading dot or hyphen in the local part, domain labels that neither
	// start nor end with a hyphen, and a real TLD.
	emailPattern = regexp.MustCompile(
		`^[A-Za-z0-9_][A-Za-z0-9_%+\-]*(\.[A-Za-z0-9_%+\-]+)*@` +
			`[A-Za-z0-9]([A-Za-z0-9\-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)

	// URL-like: scheme optional, at least one dotted label.
	urlPattern = regexp.MustCompile(`^(https?://)?[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)+(:\d+)?(/\S*)?$`)
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New()
		// Custom validations on top of the built-in tag set.
		_ = engine.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return len(format.SanitizePhone(fl.Field().String())) == 10
		})
		_ = engine.RegisterValidation("strict_email", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = engine.RegisterValidation("urlish", func(fl validator.FieldLevel) bool {
			return urlPattern.MatchString(fl.Field().String())
		})
		_ = engine.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
			_, err := format.ParseFloat(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("display_date", func(fl validator.FieldLevel) bool {
			_, ok := format.ParseDisplayDate(fl.Field().String())
			return ok
		})
	})
	return engine
}

// Check evaluates rules in order against an edit string and returns the first
// failing rule's message, or "" when everything passes. Empty input only ever
// fails the required rule; all other rules are skipped for it, because empty
// is submitted as null rather than validated as a value.
func Check(value string, rules []Rule) string {
	for _, r := range rules {
		if value == "" && r.Tag != "required" {
			continue
		}
		if err := validate().Var(value, r.Tag); err != nil {
			return r.Message
		}
	}
	return ""
}

// Required fails on empty input.
func Required() Rule {
	return Rule{Tag: "required", Message: "This field is required"}
}

// MaxLen caps the field at n characters. Most text fields use 100.
func MaxLen(n int) Rule {
	return Rule{Tag: fmt.Sprintf("max=%d", n), Message: fmt.Sprintf("Must be %d characters or fewer", n)}
}

// Email validates the strict email pattern.
func Email() Rule {
	return Rule{Tag: "strict_email", Message: "Enter a valid email address"}
}

// Phone requires exactly 10 digits after sanitizing.
func Phone() Rule {
	return Rule{Tag: "phone10", Message: "Phone number must be 10 digits"}
}

// IPAddress validates a dotted-quad IPv4 address.
func IPAddress() Rule {
	return Rule{Tag: "ipv4", Message: "Enter a valid IP address"}
}

// URL validates a URL-like value (scheme optional).
func URL() Rule {
	return Rule{Tag: "urlish", Message: "Enter a valid URL"}
}

// Amount requires the value to parse as a number once separators are stripped.
func Amount() Rule {
	return Rule{Tag: "amount", Message: "Enter a valid number"}
}

// Date requires a MM/DD/YYYY edit string.
func Date() Rule {
	return Rule{Tag: "display_date", Message: "Enter a date as MM/DD/YYYY"}
}

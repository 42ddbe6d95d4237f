// Package validate checks flat payloads against a declarative field schema
// and returns a structured violation list. The same schema shape is used by
// the server-side authorization gate and by client-side pre-checks.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// Kind is the expected type of a field value.
type Kind int

const (
	String Kind = iota
	Int
	// URL accepts an absolute http(s) URL, or empty when not required.
	URL
	// Email accepts an RFC 5322 address, or empty when not required.
	Email
)

// Field describes one schema entry. Zero bounds are not enforced, so a plain
// {Name, Kind} entry only type-checks.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// String/URL/Email bounds (runes, after trimming).
	MinLen, MaxLen int

	// Int bounds, inclusive.
	Min, Max int
}

// Schema is an ordered field list; violations come back in schema order so
// the first one is stable for messaging.
type Schema []Field

// Violation names the offending field with a user-displayable message.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Check validates values against the schema. String values are trimmed before
// bounds are applied. Values of the wrong dynamic type violate the field.
func (s Schema) Check(values map[string]any) []Violation {
	var out []Violation
	for _, f := range s {
		if v := f.check(values[f.Name]); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func (f Field) check(raw any) *Violation {
	switch f.Kind {
	case Int:
		n, ok := raw.(int)
		if !ok {
			return f.violation("%s must be a number")
		}
		if f.Required && n == 0 {
			return f.violation("%s is required")
		}
		if f.Min != 0 && n < f.Min {
			return f.violation(fmt.Sprintf("%%s must be at least %d", f.Min))
		}
		if f.Max != 0 && n > f.Max {
			return f.violation(fmt.Sprintf("%%s must be at most %d", f.Max))
		}
		return nil
	default:
		str, ok := raw.(string)
		if !ok {
			return f.violation("%s must be text")
		}
		str = strings.TrimSpace(str)
		if str == "" {
			if f.Required {
				return f.violation("%s is required")
			}
			return nil
		}
		if f.Kind == URL {
			u, err := url.Parse(str)
			if err != nil || !u.IsAbs() || u.Host == "" {
				return f.violation("%s must be a valid URL")
			}
		}
		if f.Kind == Email {
			if _, err := mail.ParseAddress(str); err != nil {
				return f.violation("%s must be a valid email address")
			}
		}
		if f.MinLen != 0 && len([]rune(str)) < f.MinLen {
			return f.violation("%s is too short")
		}
		if f.MaxLen != 0 && len([]rune(str)) > f.MaxLen {
			return f.violation("%s is too long")
		}
		return nil
	}
}

func (f Field) violation(format string) *Violation {
	return &Violation{Field: f.Name, Message: fmt.Sprintf(format, label(f.Name))}
}

// label turns a camelCase field name into display form: "ownerName" → "Owner name".
func label(name string) string {
	if name == "" {
		return name
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(r &^ 0x20)
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r | 0x20)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Package user defines the user record managed by roster and the closed set
// of fields a form can edit.
package user

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is a single user entry. The JSON shape is the snapshot format and
// must stay exactly these four keys.
type Record struct {
	FirstName string `json:"firstName" yaml:"firstName" toml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName" toml:"lastName"`
	Email     string `json:"email" yaml:"email" toml:"email"`
	Phone     string `json:"phone" yaml:"phone" toml:"phone"`
}

// Field names one of the four editable record fields.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldEmail
	FieldPhone
)

// Fields lists every field in form order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPhone}

// Key returns the snapshot key for the field.
func (f Field) Key() string {
	switch f {
	case FieldFirstName:
		return "firstName"
	case FieldLastName:
		return "lastName"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	default:
		return ""
	}
}

// Label returns the form label for the field.
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone Number"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (f Field) String() string {
	return f.Key()
}

// ParseField maps a snapshot key back to its Field.
func ParseField(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key() == key {
			return f, true
		}
	}
	return 0, false
}

// Get returns the value of field f.
func (r Record) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	default:
		return ""
	}
}

// Set returns a copy of r with field f replaced by value.
func (r Record) Set(f Field, value string) Record {
	switch f {
	case FieldFirstName:
		r.FirstName = value
	case FieldLastName:
		r.LastName = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	}
	return r
}

// FullName joins first and last name with a single space.
func (r Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Avatar returns the glyph shown next to a record: the first character of
// the first name, upper-cased. Records without a first name get "?".
func (r Record) Avatar() string {
	name := strings.TrimSpace(r.FirstName)
	if name == "" {
		return "?"
	}
	first, _ := utf8.DecodeRuneInString(name)
	return cases.Upper(language.Und).String(string(first))
}


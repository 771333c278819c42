// Package validate checks user record drafts before they reach the store.
//
// Two rule profiles exist for the same record. Create is strict: required
// fields plus an email shape and a ten digit phone number. Edit only requires
// that every field is non-blank. The asymmetry is long-standing behavior; it
// can be removed with WithStrictEdit.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smileynet/roster/internal/user"
)

// Profile selects the rule set applied to a record.
type Profile int

const (
	Create Profile = iota // New records from the create form.
	Edit                  // Existing records from the edit dialog.
)

// String implements fmt.Stringer.
func (p Profile) String() string {
	switch p {
	case Create:
		return "create"
	case Edit:
		return "edit"
	default:
		return "unknown"
	}
}

// Custom validator tags.
const (
	tagTrimmed    = "trimmed"
	tagLooseEmail = "looseemail"
	tagTenDigits  = "tendigits"
)

var (
	// looseEmailPattern accepts anything shaped like local@domain.tld.
	looseEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	tenDigitsPattern  = regexp.MustCompile(`^\d{10}$`)
)

// createRules mirrors user.Record with the strict create-form tags.
type createRules struct {
	FirstName string `json:"firstName" validate:"trimmed"`
	LastName  string `json:"lastName" validate:"trimmed"`
	Email     string `json:"email" validate:"trimmed,looseemail"`
	Phone     string `json:"phone" validate:"trimmed,tendigits"`
}

// editRules mirrors user.Record with the edit dialog's presence-only tags.
type editRules struct {
	FirstName string `json:"firstName" validate:"trimmed"`
	LastName  string `json:"lastName" validate:"trimmed"`
	Email     string `json:"email" validate:"trimmed"`
	Phone     string `json:"phone" validate:"trimmed"`
}

// Validator applies a Profile to records. The zero value is not usable;
// call New.
type Validator struct {
	v          *validator.Validate
	strictEdit bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrictEdit makes the Edit profile apply the Create rules and messages.
func WithStrictEdit(strict bool) Option {
	return func(v *Validator) {
		v.strictEdit = strict
	}
}

// New creates a Validator with the roster tags registered.
func New(opts ...Option) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(tagTrimmed, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(tagLooseEmail, func(fl validator.FieldLevel) bool {
		return looseEmailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagTenDigits, func(fl validator.FieldLevel) bool {
		return tenDigitsPattern.MatchString(fl.Field().String())
	})

	val := &Validator{v: v}
	for _, opt := range opts {
		opt(val)
	}
	return val
}

// Check validates r under profile p and returns every field error found.
// An empty result means r is acceptable.
func (val *Validator) Check(p Profile, r user.Record) Errors {
	if p == Edit && val.strictEdit {
		p = Create
	}

	var target any
	switch p {
	case Edit:
		target = editRules(r)
	default:
		target = createRules(r)
	}

	err := val.v.Struct(target)
	if err == nil {
		return Errors{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable with a non-struct target, which Check never builds.
		panic(err)
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		f, ok := user.ParseField(fe.Field())
		if !ok {
			continue
		}
		out[f] = message(p, f, fe.Tag())
	}
	return out
}

// message renders the user-facing text for a failed tag.
func message(p Profile, f user.Field, tag string) string {
	switch tag {
	case tagLooseEmail:
		return "Email is invalid"
	case tagTenDigits:
		return "Phone Number should be 10 digits"
	}
	if p == Edit {
		return sentenceCase(f.Label()) + " is required"
	}
	return f.Label() + " is required"
}

// sentenceCase keeps the first letter and lower-cases the rest:
// "Phone Number" becomes "Phone number".
func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}


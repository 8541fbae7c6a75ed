// Package validation provides custom jellydator/validation rules shared by request DTOs.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/legacyvault/internal/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// WrapValidationError turns a validation failure into ErrInvalidInput so the
// HTTP layer answers 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength is a validation.Rule for account passwords. Empty values
// pass so it composes with validation.Required.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

type charClass struct {
	enabled bool
	match   func(rune) bool
	code    string
	message string
}

func (p PasswordStrength) classes() []charClass {
	return []charClass{
		{p.RequireUpper, unicode.IsUpper, "validation_password_uppercase", "an uppercase letter"},
		{p.RequireLower, unicode.IsLower, "validation_password_lowercase", "a lowercase letter"},
		{p.RequireNumber, unicode.IsNumber, "validation_password_number", "a number"},
		{p.RequireSpecial, isSpecial, "validation_password_special", "a special character"},
	}
}

func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}
	if s == "" {
		return nil
	}

	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}
	for _, class := range p.classes() {
		if class.enabled && !containsRune(s, class.match) {
			return validation.NewError(class.code, "password must contain at least one "+class.message)
		}
	}
	return nil
}

func containsRune(s string, pred func(rune) bool) bool {
	return strings.IndexFunc(s, pred) >= 0
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Email checks the local@domain.tld shape; deliverability is not checked.
var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace rejects leading or trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank rejects strings that are only whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OTPCode validates a numeric one-time code of exactly length digits.
func OTPCode(length int) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			if len(s) != length {
				return false
			}
			return !containsRune(s, func(r rune) bool { return r < '0' || r > '9' })
		},
		validation.NewError("validation_otp_code", "must be a "+strconv.Itoa(length)+"-digit code"),
	)
}

// FutureTime validates that a time.Time (or *time.Time) is strictly after now().
// Zero values and nil pointers are left to Required.
func FutureTime(now func() time.Time) validation.Rule {
	return validation.By(func(value interface{}) error {
		var t time.Time
		switch v := value.(type) {
		case time.Time:
			t = v
		case *time.Time:
			if v == nil {
				return nil
			}
			t = *v
		default:
			return validation.NewError("validation_time_type", "must be a time")
		}
		if t.IsZero() || t.After(now()) {
			return nil
		}
		return validation.NewError("validation_future_time", "must be in the future")
	})
}

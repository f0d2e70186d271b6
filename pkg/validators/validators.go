// Package validators provides the field validators used by the admin form
// handlers. Validators receive the field's resolved value plus the current
// value map of the whole form, so cross-field rules (EqualTo,
// RequiredWithOtherFields) can inspect their peers.
package validators

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// Validator checks a single field value. The data map holds the currently
// assigned values of every field in the form, keyed by field name.
type Validator interface {
	Validate(value any, data map[string]any) error
}

// EmptyAware marks validators that must run even when the field value is
// empty. The validation engine skips ordinary validators on empty optional
// values; all-or-none rules still need to see them.
type EmptyAware interface {
	ValidatesEmpty() bool
}

// syntax backs the syntactic checks (addresses, MAC, email) with
// go-playground's validator tags.
var syntax = playground.New()

func tagValid(value, tag string) bool {
	return syntax.Var(value, tag) == nil
}

type check struct {
	message string
	valid   func(value any, data map[string]any) bool
}

func (c check) Validate(value any, data map[string]any) error {
	if c.valid(value, data) {
		return nil
	}
	return errors.New(c.message)
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// LenRange checks that the value is between low and high characters long.
func LenRange(low, high int) Validator {
	return check{
		message: fmt.Sprintf("Length must be from %d to %d characters.", low, high),
		valid: func(value any, _ map[string]any) bool {
			n := utf8.RuneCountInString(asString(value))
			return n >= low && n <= high
		},
	}
}

// ByteLenRange checks that the value is between low and high bytes long.
// SSIDs and WPA keys are limited in bytes, not characters.
func ByteLenRange(low, high int) Validator {
	return check{
		message: fmt.Sprintf("Length must be from %d to %d characters.", low, high),
		valid: func(value any, _ map[string]any) bool {
			n := len(asString(value))
			return n >= low && n <= high
		},
	}
}

// RegExp checks the value against the given pattern, reporting message on
// mismatch.
func RegExp(message, pattern string) Validator {
	re := regexp.MustCompile(pattern)
	return check{
		message: message,
		valid: func(value any, _ map[string]any) bool {
			return re.MatchString(asString(value))
		},
	}
}

// PositiveInteger checks for a non-negative decimal integer.
func PositiveInteger() Validator {
	return check{
		message: "Is not a number.",
		valid: func(value any, _ map[string]any) bool {
			n, err := strconv.Atoi(asString(value))
			return err == nil && n >= 0
		},
	}
}

// InRange checks that the numeric value lies within [low, high].
func InRange(low, high int) Validator {
	return check{
		message: fmt.Sprintf("Not in a valid range %d - %d.", low, high),
		valid: func(value any, _ map[string]any) bool {
			n, err := strconv.Atoi(asString(value))
			return err == nil && n >= low && n <= high
		},
	}
}

// Time checks for a wall-clock time in HH:MM form.
func Time() Validator {
	return RegExp("Invalid time in HH:MM format.", `^([01]\d|2[0-3]):[0-5]\d$`)
}

// IPv4 checks for a valid IPv4 address.
func IPv4() Validator {
	return check{
		message: "Not a valid IPv4 address.",
		valid: func(value any, _ map[string]any) bool {
			return tagValid(asString(value), "ip4_addr")
		},
	}
}

// IPv6 checks for a valid IPv6 address.
func IPv6() Validator {
	return check{
		message: "Not a valid IPv6 address.",
		valid: func(value any, _ map[string]any) bool {
			return tagValid(asString(value), "ip6_addr")
		},
	}
}

// IPv6Prefix checks for an IPv6 address or network with a prefix length,
// e.g. 2001:db8:be13:37da::/64.
func IPv6Prefix() Validator {
	return check{
		message: "Not a valid IPv6 prefix.",
		valid: func(value any, _ map[string]any) bool {
			return tagValid(asString(value), "cidrv6")
		},
	}
}

// AnyIP checks for either a valid IPv4 or IPv6 address.
func AnyIP() Validator {
	return check{
		message: "Not a valid IPv4 or IPv6 address.",
		valid: func(value any, _ map[string]any) bool {
			return tagValid(asString(value), "ip4_addr|ip6_addr")
		},
	}
}

// IPv4Netmask checks for a valid IPv4 netmask (contiguous ones followed by
// zeros). There is no ready-made tag for this, so the mask bits are checked
// directly.
func IPv4Netmask() Validator {
	return check{
		message: "Not a valid IPv4 netmask.",
		valid: func(value any, _ map[string]any) bool {
			ip := net.ParseIP(asString(value))
			if ip == nil {
				return false
			}
			v4 := ip.To4()
			if v4 == nil {
				return false
			}
			mask := net.IPMask(v4)
			ones, bits := mask.Size()
			return bits == 32 && (ones > 0 || mask.String() == "00000000")
		},
	}
}

// MacAddress checks for a colon-separated MAC address.
func MacAddress() Validator {
	return check{
		message: "MAC address is not valid.",
		valid: func(value any, _ map[string]any) bool {
			return tagValid(asString(value), "mac")
		},
	}
}

// Email checks for a plausible email address.
func Email() Validator {
	return check{
		message: "Not a valid email address.",
		valid: func(value any, _ map[string]any) bool {
			return tagValid(asString(value), "email")
		},
	}
}

// EqualTo checks that the value matches the current value of another field.
func EqualTo(field, message string) Validator {
	return check{
		message: message,
		valid: func(value any, data map[string]any) bool {
			return asString(value) == asString(data[field])
		},
	}
}

type requiredWith struct {
	fields  []string
	message string
}

// RequiredWithOtherFields checks that either all of the named fields are
// filled or all are empty. Attach it to every field in the group so the
// error is reported on each of them.
func RequiredWithOtherFields(fields []string, message string) Validator {
	return requiredWith{fields: append([]string(nil), fields...), message: message}
}

func (r requiredWith) Validate(_ any, data map[string]any) error {
	filled := 0
	for _, field := range r.fields {
		if asString(data[field]) != "" {
			filled++
		}
	}
	if filled == 0 || filled == len(r.fields) {
		return nil
	}
	return errors.New(r.message)
}

func (r requiredWith) ValidatesEmpty() bool { return true }

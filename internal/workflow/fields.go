package workflow

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"solarfield_backend/platform/apperr"
	appvalidator "solarfield_backend/platform/validator"

	"github.com/go-playground/validator/v10"
)

// Field-level rules shared by job creation and lead/enquiry intake. They are
// registered once on the shared validator and referenced from transport DTO
// tags, so both entry points enforce identical patterns.

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z\s]+$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	nonDigits      = regexp.MustCompile(`[^0-9]`)

	// Local parts may not start or end with a dot, nor contain doubled dots.
	emailLocalPattern = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*$`)
	emailDomainLabel  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)
)

// allowedTLDs is the allow-listed set of top-level segments accepted in email
// addresses.
var allowedTLDs = map[string]bool{
	"com": true, "net": true, "org": true, "in": true, "co": true,
	"io": true, "edu": true, "gov": true, "biz": true, "info": true,
}

// RegisterRules installs the domain validation tags on the shared validator.
// Must be called once during composition before any DTO is validated.
func RegisterRules(val *appvalidator.Validator) error {
	rules := map[string]validator.Func{
		"person_name": validPersonName,
		"mobile_10":   validMobile,
		"pincode_6":   validPincode,
		"email_tld":   validEmail,
		"future_date": validFutureDate,
	}
	for tag, fn := range rules {
		if err := val.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validPersonName(fl validator.FieldLevel) bool {
	return IsValidName(fl.Field().String())
}

func validMobile(fl validator.FieldLevel) bool {
	return IsValidMobile(fl.Field().String())
}

func validPincode(fl validator.FieldLevel) bool {
	return pincodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validEmail(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}

func validFutureDate(fl validator.FieldLevel) bool {
	return IsValidScheduleDate(fl.Field().String(), time.Now())
}

// IsValidName accepts alphabetic names of at least two characters after
// trimming.
func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= 2 && namePattern.MatchString(trimmed)
}

// IsValidMobile accepts numbers that reduce to exactly ten digits once every
// non-digit character is stripped.
func IsValidMobile(mobile string) bool {
	return len(nonDigits.ReplaceAllString(mobile, "")) == 10
}

// IsValidEmail enforces a local@domain.tld shape with an allow-listed set of
// top-level segments and no leading/trailing/doubled dots in the local part.
func IsValidEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	at := strings.LastIndex(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return false
	}

	local, domain := trimmed[:at], trimmed[at+1:]
	if !emailLocalPattern.MatchString(local) {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !emailDomainLabel.MatchString(label) {
			return false
		}
	}

	return allowedTLDs[strings.ToLower(labels[len(labels)-1])]
}

// IsValidScheduleDate accepts a YYYY-MM-DD date that is not before today,
// compared at midnight local time.
func IsValidScheduleDate(value string, now time.Time) bool {
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), now.Location())
	if err != nil {
		return false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !parsed.Before(midnight)
}

// fieldMessages maps validation tags to the message surfaced for the field.
var fieldMessages = map[string]string{
	"required":    "this field is required",
	"person_name": "only letters and spaces, minimum 2 characters",
	"mobile_10":   "10 digits only",
	"pincode_6":   "pincode must be exactly 6 digits",
	"email_tld":   "enter a valid email address",
	"future_date": "date cannot be in the past",
	"oneof":       "value is not one of the allowed options",
	"min":         "value is too short",
	"max":         "value is too long",
}

// FieldErrors converts a go-playground validation error into a typed
// validation error carrying a per-field message map. Errors of other shapes
// pass through as a generic bad request.
func FieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.BadRequest("invalid request")
	}

	fields := apperr.FieldErrors{}
	for _, fe := range verrs {
		name := fe.Field()
		if name == "" {
			name = strings.ToLower(fe.StructField())
		}
		message, ok := fieldMessages[fe.Tag()]
		if !ok {
			message = "invalid value"
		}
		fields[name] = message
	}

	return apperr.ValidationFields("validation failed", fields)
}

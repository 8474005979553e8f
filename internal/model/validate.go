package model

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// UK postcode shape, e.g. "M1 1AA", "SW1A 1AA". The space is optional.
	postcodeRe = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}$`)

	// UK phone numbers: +44 or leading 0, then 9-10 digits. Best-effort,
	// spaces are ignored.
	phoneRe = regexp.MustCompile(`^(\+44|0)\d{9,10}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPostcode reports whether s is a plausible UK postcode.
func ValidPostcode(s string) bool {
	return postcodeRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone reports whether s is a plausible UK phone number.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePostcode trims and uppercases a postcode for storage.
func NormalizePostcode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateApplication checks a charity registration application.
// Required fields are reported first (in a fixed order), then field syntax.
func ValidateApplication(app *CharityApplication) error {
	required := []struct {
		field, value string
	}{
		{"name", app.Name},
		{"email", app.Email},
		{"postcode", app.Postcode},
		{"contact_person", app.ContactPerson},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewMissingFieldError(r.field)
		}
	}

	if !ValidEmail(app.Email) {
		return &ValidationError{Field: "email", Reason: "is not a valid email address"}
	}
	if !ValidPostcode(app.Postcode) {
		return &ValidationError{Field: "postcode", Reason: "is not a valid UK postcode"}
	}
	if app.Phone != "" && !ValidPhone(app.Phone) {
		return &ValidationError{Field: "phone", Reason: "is not a valid UK phone number"}
	}
	if app.Password != "" {
		if err := ValidatePassword(app.Password); err != nil {
			return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
		}
	}
	return nil
}

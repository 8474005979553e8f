package model

import "testing"

func TestValidPostcode(t *testing.T) {
	tests := []struct {
		postcode string
		expected bool
	}{
		{"M1 1AA", true},
		{"m1 1aa", true},
		{"M11AA", true},
		{"SW1A 1AA", true},
		{"EC1A 1BB", true},
		{"  B33 8TH  ", true},
		{"not a postcode", false},
		{"", false},
		{"12345", false},
		{"M1", false},
		{"AAA 1AA", false},
	}

	for _, tt := range tests {
		if got := ValidPostcode(tt.postcode); got != tt.expected {
			t.Errorf("ValidPostcode(%q) = %v, want %v", tt.postcode, got, tt.expected)
		}
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected bool
	}{
		{"demo@charity.org", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"two@@signs.com", false},
		{"spaces in@mail.com", false},
		{"", false},
		{"missing@tld", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.expected {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.expected)
		}
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone    string
		expected bool
	}{
		{"07911 123456", true},
		{"+44 7911 123456", true},
		{"0161 496 0000", true},
		{"12345", false},
		{"", false},
		{"not a phone", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.expected {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.expected)
		}
	}
}

func TestValidateApplicationMissingFields(t *testing.T) {
	app := &CharityApplication{
		Email:         "a@b.com",
		Postcode:      "M1 1AA",
		ContactPerson: "X",
	}

	err := ValidateApplication(app)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "name" {
		t.Errorf("expected missing field 'name', got %q", ve.Field)
	}
}

func TestValidateApplicationFieldOrder(t *testing.T) {
	// With several fields missing, the first in fixed order is reported.
	err := ValidateApplication(&CharityApplication{Name: "Shelter"})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "email" {
		t.Errorf("expected missing field 'email', got %q", ve.Field)
	}
}

func TestValidateApplicationSyntax(t *testing.T) {
	base := CharityApplication{
		Name:          "Shelter",
		Email:         "info@shelter.org",
		Postcode:      "M1 1AA",
		ContactPerson: "Jo Smith",
	}

	bad := base
	bad.Email = "not-an-email"
	if err := ValidateApplication(&bad); err == nil {
		t.Error("expected error for invalid email")
	}

	bad = base
	bad.Postcode = "XYZ"
	if err := ValidateApplication(&bad); err == nil {
		t.Error("expected error for invalid postcode")
	}

	bad = base
	bad.Password = "short"
	if err := ValidateApplication(&bad); err == nil {
		t.Error("expected error for short password")
	}

	if err := ValidateApplication(&base); err != nil {
		t.Errorf("expected valid application, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Demo@Charity.ORG "); got != "demo@charity.org" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizePostcode(t *testing.T) {
	if got := NormalizePostcode(" m1 1aa "); got != "M1 1AA" {
		t.Errorf("NormalizePostcode = %q", got)
	}
}

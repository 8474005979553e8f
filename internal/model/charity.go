package model

import (
	"fmt"
	"strings"
	"time"
)

// Charity represents a registered charity organization.
type Charity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	Postcode           string    `json:"postcode"`
	Address            string    `json:"address,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	ContactPerson      string    `json:"contact_person"`
	ContactPosition    string    `json:"contact_position,omitempty"`
	Status             string    `json:"status"`
	BalancePence       int64     `json:"balance_pence"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Charity statuses.
const (
	CharityStatusPending   = "pending"
	CharityStatusActive    = "active"
	CharityStatusSuspended = "suspended"
)

// CharityApplication is the input to charity registration.
type CharityApplication struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registration_number"`
	Postcode           string `json:"postcode"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	ContactPerson      string `json:"contact_person"`
	ContactPosition    string `json:"contact_position"`
	Password           string `json:"password"`
}

// ProfileUpdate carries the fields a logged-in charity may change about
// itself. Email and status are not self-service.
type ProfileUpdate struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Postcode           string `json:"postcode"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	ContactPerson      string `json:"contact_person"`
	ContactPosition    string `json:"contact_position"`
}

// Validate checks a profile update for required fields and syntax.
func (p *ProfileUpdate) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewMissingFieldError("name")
	}
	if strings.TrimSpace(p.ContactPerson) == "" {
		return NewMissingFieldError("contact_person")
	}
	if !ValidPostcode(p.Postcode) {
		return &ValidationError{Field: "postcode", Reason: "is not a valid UK postcode"}
	}
	if p.Phone != "" && !ValidPhone(p.Phone) {
		return &ValidationError{Field: "phone", Reason: "is not a valid UK phone number"}
	}
	return nil
}

// CharityStats summarizes a charity's listed items for the dashboard.
type CharityStats struct {
	TotalItems     int `json:"total_items"`
	ActiveItems    int `json:"active_items"`
	SoldItems      int `json:"sold_items"`
	ThisMonthItems int `json:"this_month_items"`
}

// ValidatePassword checks password requirements for charity accounts.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

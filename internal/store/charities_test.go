package store

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/givespot/givespot/internal/db"
	"github.com/givespot/givespot/internal/model"
)

func testApplication() *model.CharityApplication {
	return &model.CharityApplication{
		Name:          "Shelter Manchester",
		Email:         "demo@charity.org",
		Postcode:      "M1 1AA",
		ContactPerson: "Jo Smith",
		Password:      "correct-horse",
	}
}

func TestRegisterCharity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, err := RegisterCharity(ctx, database, testApplication())
	if err != nil {
		t.Fatalf("RegisterCharity: %v", err)
	}
	if charity.Status != model.CharityStatusPending {
		t.Errorf("expected status 'pending', got %q", charity.Status)
	}
	if charity.BalancePence != 0 {
		t.Errorf("expected zero balance, got %d", charity.BalancePence)
	}
	if charity.Email != "demo@charity.org" {
		t.Errorf("expected normalized email, got %q", charity.Email)
	}
	if charity.PasswordHash == "" || charity.PasswordHash == "correct-horse" {
		t.Error("expected password to be stored hashed")
	}
}

func TestRegisterCharityMissingName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	app := testApplication()
	app.Name = ""

	_, err := RegisterCharity(ctx, database, app)
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "name" {
		t.Errorf("expected field 'name', got %q", ve.Field)
	}

	// No insert should have happened.
	c, _ := GetCharityByEmail(ctx, database, app.Email)
	if c != nil {
		t.Error("expected no charity row after failed validation")
	}
}

func TestRegisterCharityDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := RegisterCharity(ctx, database, testApplication()); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	// Same address with different case and whitespace is still a duplicate.
	app := testApplication()
	app.Email = "  Demo@Charity.ORG "
	_, err := RegisterCharity(ctx, database, app)
	if !errors.Is(err, model.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthenticateCharity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, err := RegisterCharity(ctx, database, testApplication())
	if err != nil {
		t.Fatalf("RegisterCharity: %v", err)
	}

	// Pending charities cannot log in.
	if _, err := AuthenticateCharity(ctx, database, "demo@charity.org", "correct-horse"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for pending charity, got %v", err)
	}

	if err := SetCharityStatus(ctx, database, charity.ID, model.CharityStatusActive); err != nil {
		t.Fatalf("SetCharityStatus: %v", err)
	}

	got, err := AuthenticateCharity(ctx, database, "demo@charity.org", "correct-horse")
	if err != nil {
		t.Fatalf("AuthenticateCharity: %v", err)
	}
	if got.ID != charity.ID {
		t.Errorf("expected charity %d, got %d", charity.ID, got.ID)
	}

	// Email lookup is case-insensitive and trimmed.
	if _, err := AuthenticateCharity(ctx, database, " DEMO@charity.org ", "correct-horse"); err != nil {
		t.Errorf("expected case-insensitive email match, got %v", err)
	}
}

func TestAuthenticateCharityWrongPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, _ := RegisterCharity(ctx, database, testApplication())
	SetCharityStatus(ctx, database, charity.ID, model.CharityStatusActive)

	_, err := AuthenticateCharity(ctx, database, "demo@charity.org", "wrongpass")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	// Unknown email fails with the same error.
	_, err = AuthenticateCharity(ctx, database, "nobody@charity.org", "whatever")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateCharityNoPasswordSet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	app := testApplication()
	app.Password = ""
	charity, _ := RegisterCharity(ctx, database, app)
	SetCharityStatus(ctx, database, charity.ID, model.CharityStatusActive)

	_, err := AuthenticateCharity(ctx, database, app.Email, "anything")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unset password, got %v", err)
	}
}

func TestUpdateCharityProfile(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, _ := RegisterCharity(ctx, database, testApplication())

	err := UpdateCharityProfile(ctx, database, charity.ID, &model.ProfileUpdate{
		Name:          "Shelter Manchester Central",
		Postcode:      "m2 2bb",
		Address:       "1 High Street",
		ContactPerson: "Jo Smith",
	})
	if err != nil {
		t.Fatalf("UpdateCharityProfile: %v", err)
	}

	got, _ := GetCharity(ctx, database, charity.ID)
	if got.Name != "Shelter Manchester Central" {
		t.Errorf("expected updated name, got %q", got.Name)
	}
	if got.Postcode != "M2 2BB" {
		t.Errorf("expected normalized postcode 'M2 2BB', got %q", got.Postcode)
	}
}

func TestUpdateCharityProfileInvalidPostcode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, _ := RegisterCharity(ctx, database, testApplication())

	err := UpdateCharityProfile(ctx, database, charity.ID, &model.ProfileUpdate{
		Name:          "Shelter",
		Postcode:      "nope",
		ContactPerson: "Jo",
	})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestSetCharityPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	app := testApplication()
	app.Password = ""
	charity, _ := RegisterCharity(ctx, database, app)
	SetCharityStatus(ctx, database, charity.ID, model.CharityStatusActive)

	hash, _ := bcrypt.GenerateFromPassword([]byte("new-password"), bcrypt.DefaultCost)
	if err := SetCharityPassword(ctx, database, charity.ID, string(hash)); err != nil {
		t.Fatalf("SetCharityPassword: %v", err)
	}

	if _, err := AuthenticateCharity(ctx, database, app.Email, "new-password"); err != nil {
		t.Errorf("expected login after password setup, got %v", err)
	}
}

func TestGetCharityStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, _ := RegisterCharity(ctx, database, testApplication())

	item1, _ := CreateItem(ctx, database, charity.ID, 500, "winter coat")
	CreateItem(ctx, database, charity.ID, 1000, "bookshelf")
	UpdateItemStatus(ctx, database, charity.ID, item1.ID, model.ItemStatusSold)

	// A listing from a previous month counts toward the totals but not
	// toward this month. created_at is UTC, like the month boundary.
	old, _ := CreateItem(ctx, database, charity.ID, 250, "lamp")
	if _, err := database.ExecContext(ctx,
		`UPDATE items SET created_at = datetime('now', '-40 days') WHERE id = ?`, old.ID,
	); err != nil {
		t.Fatalf("backdating item: %v", err)
	}

	stats, err := GetCharityStats(ctx, database, charity.ID)
	if err != nil {
		t.Fatalf("GetCharityStats: %v", err)
	}
	if stats.TotalItems != 3 {
		t.Errorf("expected 3 total items, got %d", stats.TotalItems)
	}
	if stats.ActiveItems != 2 {
		t.Errorf("expected 2 active items, got %d", stats.ActiveItems)
	}
	if stats.SoldItems != 1 {
		t.Errorf("expected 1 sold item, got %d", stats.SoldItems)
	}
	if stats.ThisMonthItems != 2 {
		t.Errorf("expected 2 items this month, got %d", stats.ThisMonthItems)
	}
}

func TestSetCharityStatusUnknownCharity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	err := SetCharityStatus(ctx, database, 999, model.CharityStatusActive)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

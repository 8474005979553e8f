package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/givespot/givespot/internal/model"
)

// RegisterCharity validates a registration application and inserts a new
// charity with status pending and a zero balance. If an initial password is
// supplied it is bcrypt-hashed; otherwise the account awaits password setup.
func RegisterCharity(ctx context.Context, db *sql.DB, app *model.CharityApplication) (*model.Charity, error) {
	if err := model.ValidateApplication(app); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(app.Email)

	// Uniqueness check among all charities, regardless of status.
	var existing int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM charities WHERE lower(email) = ?`, email,
	).Scan(&existing)
	if err == nil {
		return nil, model.ErrDuplicateEmail
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	var passwordHash sql.NullString
	if app.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(app.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		passwordHash = sql.NullString{String: string(hash), Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO charities
		     (name, email, password_hash, registration_number, postcode,
		      address, phone, contact_person, contact_position, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(app.Name),
		email,
		passwordHash,
		strings.TrimSpace(app.RegistrationNumber),
		model.NormalizePostcode(app.Postcode),
		strings.TrimSpace(app.Address),
		strings.TrimSpace(app.Phone),
		strings.TrimSpace(app.ContactPerson),
		strings.TrimSpace(app.ContactPosition),
		model.CharityStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("creating charity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting charity id: %w", err)
	}

	return GetCharity(ctx, db, id)
}

// AuthenticateCharity looks up an active charity by email and verifies the
// password. All failure modes return ErrInvalidCredentials so callers can't
// distinguish unknown emails from wrong passwords.
func AuthenticateCharity(ctx context.Context, db *sql.DB, email, password string) (*model.Charity, error) {
	charity, err := GetCharityByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if charity == nil || charity.Status != model.CharityStatusActive {
		return nil, model.ErrInvalidCredentials
	}

	if charity.PasswordHash == "" {
		// Account approved but never finished password setup.
		slog.Warn("login attempt on charity without password", "charity_id", charity.ID)
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(charity.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return charity, nil
}

const charityColumns = `id, name, email, password_hash, registration_number, postcode,
	 address, phone, contact_person, contact_position, status, balance_pence,
	 created_at, updated_at`

// GetCharity returns a charity by ID.
func GetCharity(ctx context.Context, db *sql.DB, id int64) (*model.Charity, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+charityColumns+` FROM charities WHERE id = ?`, id,
	)
	return scanCharity(row)
}

// GetCharityByEmail returns a charity by email, matched case-insensitively
// on the trimmed address. Any status is returned; callers check it.
func GetCharityByEmail(ctx context.Context, db *sql.DB, email string) (*model.Charity, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+charityColumns+` FROM charities WHERE lower(email) = ?`,
		model.NormalizeEmail(email),
	)
	return scanCharity(row)
}

func scanCharity(row *sql.Row) (*model.Charity, error) {
	c := &model.Charity{}
	var passwordHash, regNumber, address, phone, contactPosition sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Email, &passwordHash, &regNumber, &c.Postcode,
		&address, &phone, &c.ContactPerson, &contactPosition, &c.Status, &c.BalancePence,
		&c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting charity: %w", err)
	}
	c.PasswordHash = passwordHash.String
	c.RegistrationNumber = regNumber.String
	c.Address = address.String
	c.Phone = phone.String
	c.ContactPosition = contactPosition.String
	return c, nil
}

// UpdateCharityProfile updates a charity's self-service profile fields.
func UpdateCharityProfile(ctx context.Context, db *sql.DB, id int64, p *model.ProfileUpdate) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`UPDATE charities
		 SET name = ?, registration_number = ?, postcode = ?, address = ?,
		     phone = ?, contact_person = ?, contact_position = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		strings.TrimSpace(p.Name),
		strings.TrimSpace(p.RegistrationNumber),
		model.NormalizePostcode(p.Postcode),
		strings.TrimSpace(p.Address),
		strings.TrimSpace(p.Phone),
		strings.TrimSpace(p.ContactPerson),
		strings.TrimSpace(p.ContactPosition),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating charity profile: %w", err)
	}
	return nil
}

// SetCharityPassword updates a charity's password hash.
func SetCharityPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE charities SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating charity password: %w", err)
	}
	return nil
}

// SetCharityStatus changes a charity's status (approval/suspension).
func SetCharityStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	if status != model.CharityStatusPending && status != model.CharityStatusActive && status != model.CharityStatusSuspended {
		return fmt.Errorf("invalid charity status %q", status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE charities SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating charity status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// GetCharityStats returns item counts for a charity's dashboard.
func GetCharityStats(ctx context.Context, db *sql.DB, charityID int64) (*model.CharityStats, error) {
	// The boundary must be in UTC to compare against CURRENT_TIMESTAMP,
	// and in its text format so the comparison is exact.
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &model.CharityStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = 'active'), 0),
		        COALESCE(SUM(status = 'sold'), 0),
		        COALESCE(SUM(created_at >= ?), 0)
		 FROM items WHERE charity_id = ?`,
		monthStart.Format("2006-01-02 15:04:05"), charityID,
	).Scan(&stats.TotalItems, &stats.ActiveItems, &stats.SoldItems, &stats.ThisMonthItems)
	if err != nil {
		return nil, fmt.Errorf("getting charity stats: %w", err)
	}
	return stats, nil
}

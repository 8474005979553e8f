package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/givespot/givespot/internal/model"
)

// CreateItem lists a new item for a charity. The item code is generated
// and the price must be positive.
func CreateItem(ctx context.Context, db *sql.DB, charityID, pricePence int64, description string) (*model.Item, error) {
	if pricePence <= 0 {
		return nil, &model.ValidationError{Field: "price", Reason: "must be greater than zero"}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (charity_id, item_code, price_pence, description) VALUES (?, ?, ?, ?)`,
		charityID, newItemCode(), pricePence, strings.TrimSpace(description),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// newItemCode generates a short human-readable item code.
func newItemCode() string {
	return "GS-" + strings.ToUpper(uuid.New().String()[:8])
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, charity_id, item_code, price_pence, description, status, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.CharityID, &item.ItemCode, &item.PricePence, &description,
		&item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Description = description.String
	return item, nil
}

// ListListings returns the public catalog: active items newest-first, each
// with a snapshot of its charity's display fields. The filter optionally
// restricts by charity postcode prefix (case-insensitive) and maximum price.
func ListListings(ctx context.Context, db *sql.DB, filter model.ListingFilter) ([]model.Listing, error) {
	query := `SELECT i.id, i.charity_id, i.item_code, i.price_pence, i.description,
	                 i.status, i.created_at, i.updated_at,
	                 c.name, c.postcode, c.address,
	                 (SELECT COUNT(*) FROM item_images img WHERE img.item_id = i.id)
	          FROM items i
	          JOIN charities c ON c.id = i.charity_id
	          WHERE i.status = 'active'`
	args := []any{}

	if filter.PostcodePrefix != "" {
		query += ` AND upper(c.postcode) LIKE upper(?) || '%'`
		args = append(args, strings.TrimSpace(filter.PostcodePrefix))
	}
	if filter.MaxPricePence > 0 {
		query += ` AND i.price_pence <= ?`
		args = append(args, filter.MaxPricePence)
	}

	query += ` ORDER BY i.created_at DESC, i.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		var description, address sql.NullString
		if err := rows.Scan(&l.ID, &l.CharityID, &l.ItemCode, &l.PricePence, &description,
			&l.Status, &l.CreatedAt, &l.UpdatedAt,
			&l.CharityName, &l.CharityPostcode, &address, &l.ImageCount); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		l.Description = description.String
		l.CharityAddress = address.String
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// GetListing returns a single active catalog entry with its charity
// snapshot, or nil if the item is absent or no longer active.
func GetListing(ctx context.Context, db *sql.DB, id int64) (*model.Listing, error) {
	row := db.QueryRowContext(ctx,
		`SELECT i.id, i.charity_id, i.item_code, i.price_pence, i.description,
		        i.status, i.created_at, i.updated_at,
		        c.name, c.postcode, c.address,
		        (SELECT COUNT(*) FROM item_images img WHERE img.item_id = i.id)
		 FROM items i
		 JOIN charities c ON c.id = i.charity_id
		 WHERE i.status = 'active' AND i.id = ?`, id,
	)

	var l model.Listing
	var description, address sql.NullString
	err := row.Scan(&l.ID, &l.CharityID, &l.ItemCode, &l.PricePence, &description,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
		&l.CharityName, &l.CharityPostcode, &address, &l.ImageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting listing: %w", err)
	}
	l.Description = description.String
	l.CharityAddress = address.String
	return &l, nil
}

// ListCharityItems returns all of a charity's items, any status, newest first.
func ListCharityItems(ctx context.Context, db *sql.DB, charityID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, charity_id, item_code, price_pence, description, status, created_at, updated_at
		 FROM items WHERE charity_id = ? ORDER BY created_at DESC, id DESC`, charityID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing charity items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description sql.NullString
		if err := rows.Scan(&item.ID, &item.CharityID, &item.ItemCode, &item.PricePence,
			&description, &item.Status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Description = description.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemStatus changes an item's status, scoped to its owning charity
// so one charity cannot touch another's items.
func UpdateItemStatus(ctx context.Context, db *sql.DB, charityID, itemID int64, status string) error {
	if !model.ValidItemStatus(status) {
		return &model.ValidationError{Field: "status", Reason: "is not a valid item status"}
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND charity_id = ?`,
		status, itemID, charityID,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// AddItemImage appends an image to an item's ordered photo list and
// returns its position.
func AddItemImage(ctx context.Context, db *sql.DB, itemID int64, data []byte, mime string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_images WHERE item_id = ?`, itemID,
	).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("counting item images: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_images (item_id, position, data, mime) VALUES (?, ?, ?, ?)`,
		itemID, position, data, mime,
	)
	if err != nil {
		return 0, fmt.Errorf("adding item image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing image: %w", err)
	}
	return position, nil
}

// GetItemImage returns the image at the given position in an item's photo
// list. Missing images return nil data, not an error.
func GetItemImage(ctx context.Context, db *sql.DB, itemID int64, position int) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM item_images WHERE item_id = ? AND position = ?`,
		itemID, position,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return data, mime, nil
}

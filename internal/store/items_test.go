package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/givespot/givespot/internal/db"
	"github.com/givespot/givespot/internal/model"
)

// newCharity inserts a registered charity with the given postcode and
// returns it. Status stays pending; listing does not depend on it.
func newCharity(t *testing.T, database *sql.DB, email, postcode string) *model.Charity {
	t.Helper()
	charity, err := RegisterCharity(context.Background(), database, &model.CharityApplication{
		Name:          "Charity " + email,
		Email:         email,
		Postcode:      postcode,
		ContactPerson: "Jo Smith",
	})
	if err != nil {
		t.Fatalf("registering test charity: %v", err)
	}
	return charity
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")

	item, err := CreateItem(ctx, database, charity.ID, 1250, "winter coat")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if item.PricePence != 1250 {
		t.Errorf("expected price 1250, got %d", item.PricePence)
	}
	if !strings.HasPrefix(item.ItemCode, "GS-") || len(item.ItemCode) != 11 {
		t.Errorf("unexpected item code %q", item.ItemCode)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.ItemCode != item.ItemCode {
		t.Errorf("GetItem returned %+v", got)
	}
}

func TestGetListing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")
	item, err := CreateItem(ctx, database, charity.ID, 1250, "winter coat")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	listing, err := GetListing(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetListing: %v", err)
	}
	if listing == nil {
		t.Fatal("expected listing for active item")
	}
	if listing.CharityName != charity.Name || listing.CharityPostcode != "M1 1AA" {
		t.Errorf("listing missing charity snapshot: %+v", listing)
	}

	// Sold items drop out of the catalog.
	if err := UpdateItemStatus(ctx, database, charity.ID, item.ID, model.ItemStatusSold); err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	listing, err = GetListing(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetListing after sale: %v", err)
	}
	if listing != nil {
		t.Errorf("expected nil for sold item, got %+v", listing)
	}

	listing, err = GetListing(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetListing unknown id: %v", err)
	}
	if listing != nil {
		t.Errorf("expected nil for unknown item, got %+v", listing)
	}
}

func TestCreateItemRejectsNonPositivePrice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")

	for _, price := range []int64{0, -100} {
		_, err := CreateItem(ctx, database, charity.ID, price, "")
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("price %d: expected *ValidationError, got %v", price, err)
		}
	}
}

func TestListListingsEmptyCatalog(t *testing.T) {
	database := db.NewTestDB(t)

	listings, err := ListListings(context.Background(), database, model.ListingFilter{})
	if err != nil {
		t.Fatalf("ListListings on empty catalog: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected empty result, got %d listings", len(listings))
	}
}

func TestListListingsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")
	first, _ := CreateItem(ctx, database, charity.ID, 500, "oldest")
	second, _ := CreateItem(ctx, database, charity.ID, 500, "middle")
	third, _ := CreateItem(ctx, database, charity.ID, 500, "newest")

	listings, err := ListListings(ctx, database, model.ListingFilter{})
	if err != nil {
		t.Fatalf("ListListings: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}
	if listings[0].ID != third.ID || listings[1].ID != second.ID || listings[2].ID != first.ID {
		t.Errorf("expected newest-first order, got %d, %d, %d",
			listings[0].ID, listings[1].ID, listings[2].ID)
	}
}

func TestListListingsExcludesInactive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")
	sold, _ := CreateItem(ctx, database, charity.ID, 500, "")
	removed, _ := CreateItem(ctx, database, charity.ID, 500, "")
	active, _ := CreateItem(ctx, database, charity.ID, 500, "")

	UpdateItemStatus(ctx, database, charity.ID, sold.ID, model.ItemStatusSold)
	UpdateItemStatus(ctx, database, charity.ID, removed.ID, model.ItemStatusRemoved)

	listings, _ := ListListings(ctx, database, model.ListingFilter{})
	if len(listings) != 1 || listings[0].ID != active.ID {
		t.Errorf("expected only the active item, got %+v", listings)
	}
}

func TestListListingsMaxPrice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")
	cheap, _ := CreateItem(ctx, database, charity.ID, 800, "")
	exact, _ := CreateItem(ctx, database, charity.ID, 1000, "")
	CreateItem(ctx, database, charity.ID, 1001, "")

	listings, err := ListListings(ctx, database, model.ListingFilter{MaxPricePence: 1000})
	if err != nil {
		t.Fatalf("ListListings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings at or under £10, got %d", len(listings))
	}
	// Bound is inclusive and order stays newest-first.
	if listings[0].ID != exact.ID || listings[1].ID != cheap.ID {
		t.Errorf("unexpected order: %d, %d", listings[0].ID, listings[1].ID)
	}
}

func TestListListingsPostcodePrefix(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	manchester := newCharity(t, database, "m@charity.org", "M1 1AA")
	london := newCharity(t, database, "l@charity.org", "SW1A 1AA")
	CreateItem(ctx, database, manchester.ID, 500, "")
	CreateItem(ctx, database, london.ID, 500, "")

	listings, err := ListListings(ctx, database, model.ListingFilter{PostcodePrefix: "m1"})
	if err != nil {
		t.Fatalf("ListListings: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing for prefix 'm1', got %d", len(listings))
	}
	if listings[0].CharityPostcode != "M1 1AA" {
		t.Errorf("expected charity postcode 'M1 1AA', got %q", listings[0].CharityPostcode)
	}
}

func TestListListingsCharitySnapshot(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity, err := RegisterCharity(ctx, database, &model.CharityApplication{
		Name:          "Oxfam Didsbury",
		Email:         "didsbury@oxfam.org",
		Postcode:      "M20 2RN",
		Address:       "741 Wilmslow Road",
		ContactPerson: "Sam Lee",
	})
	if err != nil {
		t.Fatalf("registering charity: %v", err)
	}
	CreateItem(ctx, database, charity.ID, 350, "paperback")

	listings, _ := ListListings(ctx, database, model.ListingFilter{})
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	l := listings[0]
	if l.CharityName != "Oxfam Didsbury" || l.CharityPostcode != "M20 2RN" || l.CharityAddress != "741 Wilmslow Road" {
		t.Errorf("charity snapshot not carried: %+v", l)
	}
}

func TestUpdateItemStatusScopedToOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := newCharity(t, database, "owner@charity.org", "M1 1AA")
	other := newCharity(t, database, "other@charity.org", "M2 2BB")
	item, _ := CreateItem(ctx, database, owner.ID, 500, "")

	// Another charity cannot change the item.
	err := UpdateItemStatus(ctx, database, other.ID, item.ID, model.ItemStatusRemoved)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign item, got %v", err)
	}

	if err := UpdateItemStatus(ctx, database, owner.ID, item.ID, model.ItemStatusSold); err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusSold {
		t.Errorf("expected status 'sold', got %q", got.Status)
	}
}

func TestItemImages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	charity := newCharity(t, database, "a@charity.org", "M1 1AA")
	item, _ := CreateItem(ctx, database, charity.ID, 500, "")

	pos0, err := AddItemImage(ctx, database, item.ID, []byte("first image"), "image/jpeg")
	if err != nil {
		t.Fatalf("AddItemImage: %v", err)
	}
	pos1, _ := AddItemImage(ctx, database, item.ID, []byte("second image"), "image/jpeg")
	if pos0 != 0 || pos1 != 1 {
		t.Errorf("expected positions 0 and 1, got %d and %d", pos0, pos1)
	}

	data, mime, err := GetItemImage(ctx, database, item.ID, 1)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "second image" || mime != "image/jpeg" {
		t.Errorf("got %q (%s)", data, mime)
	}

	// Missing position returns nil data, not an error.
	data, _, err = GetItemImage(ctx, database, item.ID, 5)
	if err != nil || data != nil {
		t.Errorf("expected nil data for missing image, got %q, %v", data, err)
	}

	listings, _ := ListListings(ctx, database, model.ListingFilter{})
	if listings[0].ImageCount != 2 {
		t.Errorf("expected image count 2 in listing, got %d", listings[0].ImageCount)
	}
}

func TestListCharityItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mine := newCharity(t, database, "mine@charity.org", "M1 1AA")
	theirs := newCharity(t, database, "theirs@charity.org", "M2 2BB")

	item, _ := CreateItem(ctx, database, mine.ID, 500, "")
	CreateItem(ctx, database, theirs.ID, 500, "")
	UpdateItemStatus(ctx, database, mine.ID, item.ID, model.ItemStatusSold)

	items, err := ListCharityItems(ctx, database, mine.ID)
	if err != nil {
		t.Fatalf("ListCharityItems: %v", err)
	}
	// Own items of any status, nobody else's.
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("expected only own item, got %+v", items)
	}
}

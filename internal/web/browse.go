package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/givespot/givespot/internal/auth"
	"github.com/givespot/givespot/internal/metrics"
	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/store"
)

// BrowsePage handles GET /. The catalog is public: no session required.
func (s *Server) BrowsePage(w http.ResponseWriter, r *http.Request) {
	var filter model.ListingFilter
	var pageError string

	filter.PostcodePrefix = r.FormValue("postcode")
	maxPrice := r.FormValue("max_price")
	if maxPrice != "" {
		pence, err := model.ParsePrice(maxPrice)
		if err != nil {
			pageError = "Enter a price like 12.50."
		} else {
			filter.MaxPricePence = pence
		}
	}

	filtered := "unfiltered"
	if filter.PostcodePrefix != "" || filter.MaxPricePence > 0 {
		filtered = "filtered"
	}
	metrics.ListingQueries.WithLabelValues(filtered).Inc()

	listings, err := store.ListListings(r.Context(), s.DB, filter)
	if err != nil {
		// An empty catalog is a normal outcome; a failed query is not,
		// and must be visible to the shopper, not just the log.
		slog.Error("failed to list catalog", "error", err)
		pageError = "Could not load items, please try again."
	}

	s.Templates.Render(w, "browse.html", &struct {
		PageData
		Listings []model.Listing
		Postcode string
		MaxPrice string
	}{
		PageData: PageData{Title: "Browse items", Error: pageError, Session: s.optionalSession(r)},
		Listings: listings,
		Postcode: filter.PostcodePrefix,
		MaxPrice: maxPrice,
	})
}

// ItemDetailPage handles GET /items/{id}. Public, active items only.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	listing, err := store.GetListing(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to load item detail", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if listing == nil {
		http.NotFound(w, r)
		return
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Listing *model.Listing
	}{
		PageData: PageData{Title: model.FormatItemCode(listing.ItemCode), Session: s.optionalSession(r)},
		Listing:  listing,
	})
}

// ItemPhotoGet handles GET /items/{id}/photos/{pos}. Public.
func (s *Server) ItemPhotoGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), s.DB, id, pos)
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}

// optionalSession parses the session cookie on public pages so the nav
// can show a dashboard link for logged-in charities. Invalid cookies are
// ignored here; the protected routes clear them.
func (s *Server) optionalSession(r *http.Request) *auth.Claims {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := auth.ParseSession(s.SessionSecret, cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

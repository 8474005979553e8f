package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/givespot/givespot/internal/imaging"
	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/sanitize"
	"github.com/givespot/givespot/internal/store"
)

// redirectDashboard sends the browser back to the dashboard with a flash
// message in the query string.
func redirectDashboard(w http.ResponseWriter, r *http.Request, key, msg string) {
	http.Redirect(w, r, "/dashboard?"+key+"="+url.QueryEscape(msg), http.StatusSeeOther)
}

// ItemCreateSubmit handles POST /dashboard/items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	pence, err := model.ParsePrice(r.FormValue("price"))
	if err != nil {
		redirectDashboard(w, r, "error", "Enter a price like 12.50.")
		return
	}

	item, err := store.CreateItem(r.Context(), s.DB, claims.CharityID, pence, sanitize.Text(r.FormValue("description")))
	if err != nil {
		slog.Error("failed to create item", "error", err)
		redirectDashboard(w, r, "error", "Could not list the item, please try again.")
		return
	}

	redirectDashboard(w, r, "success", "Item "+item.ItemCode+" listed.")
}

// ItemStatusSubmit handles POST /dashboard/items/{id}/status.
func (s *Server) ItemStatusSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	status := r.FormValue("status")
	if err := store.UpdateItemStatus(r.Context(), s.DB, claims.CharityID, id, status); err != nil {
		slog.Error("failed to update item status", "error", err)
		redirectDashboard(w, r, "error", "Could not update the item.")
		return
	}

	redirectDashboard(w, r, "success", "Item updated.")
}

// ItemPhotoSubmit handles POST /dashboard/items/{id}/photos.
func (s *Server) ItemPhotoSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Only the owning charity may attach photos.
	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil || item == nil || item.CharityID != claims.CharityID {
		http.NotFound(w, r)
		return
	}

	// Limit to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		redirectDashboard(w, r, "error", "Photo too large (10 MB limit).")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		redirectDashboard(w, r, "error", "Choose a photo to upload.")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if err != nil {
		redirectDashboard(w, r, "error", "Photos must be JPEG or PNG.")
		return
	}

	if _, err := store.AddItemImage(r.Context(), s.DB, id, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save photo", "error", err)
		redirectDashboard(w, r, "error", "Could not save the photo, please try again.")
		return
	}

	redirectDashboard(w, r, "success", "Photo added.")
}

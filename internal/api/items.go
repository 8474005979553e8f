package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/givespot/givespot/internal/imaging"
	"github.com/givespot/givespot/internal/metrics"
	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/sanitize"
	"github.com/givespot/givespot/internal/store"
)

// ItemsHandler handles the public catalog and charity item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Price       string `json:"price"`
	Description string `json:"description"`
}

type updateItemStatusRequest struct {
	Status string `json:"status"`
}

// ListListings handles GET /api/listings. Public, no session required.
// Supports ?postcode= (prefix match) and ?max_price= (inclusive, "12.50"
// or "£12.50") filters.
func (h *ItemsHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	var filter model.ListingFilter

	filter.PostcodePrefix = r.URL.Query().Get("postcode")
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		pence, err := model.ParsePrice(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPricePence = pence
	}

	filtered := "unfiltered"
	if filter.PostcodePrefix != "" || filter.MaxPricePence > 0 {
		filtered = "filtered"
	}
	metrics.ListingQueries.WithLabelValues(filtered).Inc()

	listings, err := store.ListListings(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	jsonResponse(w, http.StatusOK, listings)
}

// GetListing handles GET /api/listings/{id}. Public.
func (h *ItemsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	listing, err := store.GetListing(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if listing == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, listing)
}

// GetPhoto handles GET /api/listings/{id}/photos/{pos}. Public.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid photo position")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id, pos)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// ListOwn handles GET /api/charity/items.
func (h *ItemsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	items, err := store.ListCharityItems(r.Context(), h.DB, claims.CharityID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/charity/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pence, err := model.ParsePrice(req.Price)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid price")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, claims.CharityID, pence, sanitize.Text(req.Description))
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// UpdateStatus handles PUT /api/charity/items/{id}/status. Only the owning
// charity can change an item's status.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateItemStatus(r.Context(), h.DB, claims.CharityID, id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	item, _ := store.GetItem(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, item)
}

// UploadPhoto handles POST /api/charity/items/{id}/photos.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.CharityID != claims.CharityID {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Limit to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	pos, err := store.AddItemImage(r.Context(), h.DB, id, photo.Data, photo.MIME)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]int{"position": pos})
}

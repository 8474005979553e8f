package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/store"
)

// CharitiesHandler handles the logged-in charity's own account endpoints.
type CharitiesHandler struct {
	DB *sql.DB
}

// GetProfile handles GET /api/charity. It always reads the database rather
// than echoing the session snapshot, so edits show up immediately.
func (h *CharitiesHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	charity, err := store.GetCharity(r.Context(), h.DB, claims.CharityID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if charity == nil {
		jsonError(w, http.StatusNotFound, "charity not found")
		return
	}

	jsonResponse(w, http.StatusOK, charity)
}

// UpdateProfile handles PUT /api/charity.
func (h *CharitiesHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var update model.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateCharityProfile(r.Context(), h.DB, claims.CharityID, &update); err != nil {
		writeError(w, err)
		return
	}

	charity, err := store.GetCharity(r.Context(), h.DB, claims.CharityID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("charity updated profile", "charity", charity.Name)
	jsonResponse(w, http.StatusOK, charity)
}

// GetStats handles GET /api/charity/stats.
func (h *CharitiesHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	stats, err := store.GetCharityStats(r.Context(), h.DB, claims.CharityID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, stats)
}

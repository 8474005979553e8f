package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/givespot/givespot/internal/auth"
	"github.com/givespot/givespot/internal/metrics"
	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB            *sql.DB
	SessionSecret string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	Charity *model.Charity `json:"charity"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	charity, err := store.AuthenticateCharity(r.Context(), h.DB, req.Email, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		writeError(w, err)
		return
	}

	token, err := auth.NewSession(h.SessionSecret, charity.ID, charity.Name, charity.Email, charity.Postcode)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	slog.Info("charity logged in", "charity", charity.Name)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Charity: charity})
}

// Register handles POST /api/auth/register. New applications start out
// pending until an administrator approves them.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var app model.CharityApplication
	if err := decodeJSON(r, &app); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	charity, err := store.RegisterCharity(r.Context(), h.DB, &app)
	if err != nil {
		metrics.Registrations.WithLabelValues("rejected").Inc()
		writeError(w, err)
		return
	}

	metrics.Registrations.WithLabelValues("created").Inc()
	slog.Info("charity application submitted", "charity", charity.Name)
	jsonResponse(w, http.StatusCreated, charity)
}

// Logout handles POST /api/auth/logout. The session's JTI is revoked so
// the token stops working before its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	expiresAt := time.Now().Add(auth.SessionExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := store.RevokeSession(r.Context(), h.DB, claims.ID, expiresAt); err != nil {
		// The token still expires on its own, so log and carry on.
		slog.Error("failed to revoke session", "error", err)
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := model.ValidatePassword(req.NewPassword); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	charity, err := store.GetCharity(r.Context(), h.DB, claims.CharityID)
	if err != nil || charity == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// An account approved before choosing a password has no hash yet, so
	// only verify the current password once one is set.
	if charity.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(charity.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			jsonError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.SetCharityPassword(r.Context(), h.DB, claims.CharityID, string(hash)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	slog.Info("charity changed password", "charity", claims.Name)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

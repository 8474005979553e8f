package web

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/store"
)

// ProfilePage handles GET /profile.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	charity, err := store.GetCharity(r.Context(), s.DB, claims.CharityID)
	if err != nil || charity == nil {
		slog.Error("failed to load charity profile", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.renderProfile(w, r, charity, "", "")
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, charity *model.Charity, errMsg, success string) {
	s.Templates.Render(w, "profile.html", &struct {
		PageData
		Charity *model.Charity
	}{
		PageData: PageData{
			Title:   "Your charity",
			Session: GetSession(r.Context()),
			Error:   errMsg,
			Success: success,
		},
		Charity: charity,
	})
}

// ProfileSubmit handles POST /profile.
func (s *Server) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	update := &model.ProfileUpdate{
		Name:               r.FormValue("name"),
		RegistrationNumber: r.FormValue("registration_number"),
		Postcode:           r.FormValue("postcode"),
		Address:            r.FormValue("address"),
		Phone:              r.FormValue("phone"),
		ContactPerson:      r.FormValue("contact_person"),
		ContactPosition:    r.FormValue("contact_position"),
	}

	if err := store.UpdateCharityProfile(r.Context(), s.DB, claims.CharityID, update); err != nil {
		var ve *model.ValidationError
		msg := "Something went wrong, please try again."
		if errors.As(err, &ve) {
			msg = ve.Error()
		} else {
			slog.Error("failed to update profile", "error", err)
		}
		charity, gerr := store.GetCharity(r.Context(), s.DB, claims.CharityID)
		if gerr != nil || charity == nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.renderProfile(w, r, charity, msg, "")
		return
	}

	charity, err := store.GetCharity(r.Context(), s.DB, claims.CharityID)
	if err != nil || charity == nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.renderProfile(w, r, charity, "", "Profile updated.")
}

// PasswordSubmit handles POST /profile/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	charity, err := store.GetCharity(r.Context(), s.DB, claims.CharityID)
	if err != nil || charity == nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	newPassword := r.FormValue("new_password")
	if err := model.ValidatePassword(newPassword); err != nil {
		s.renderProfile(w, r, charity, err.Error(), "")
		return
	}

	// An account approved before choosing a password has no hash yet, so
	// only verify the current password once one is set.
	if charity.PasswordHash != "" {
		current := r.FormValue("current_password")
		if err := bcrypt.CompareHashAndPassword([]byte(charity.PasswordHash), []byte(current)); err != nil {
			s.renderProfile(w, r, charity, "Current password is incorrect.", "")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		s.renderProfile(w, r, charity, "Something went wrong, please try again.", "")
		return
	}

	if err := store.SetCharityPassword(r.Context(), s.DB, claims.CharityID, string(hash)); err != nil {
		slog.Error("failed to update password", "error", err)
		s.renderProfile(w, r, charity, "Something went wrong, please try again.", "")
		return
	}

	slog.Info("charity changed password", "charity", claims.Name)
	s.renderProfile(w, r, charity, "", "Password updated.")
}

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/givespot/givespot/internal/auth"
	"github.com/givespot/givespot/internal/metrics"
	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Charity login"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Charity login",
			Error: "Enter your email address and password.",
		})
		return
	}

	charity, err := store.AuthenticateCharity(r.Context(), s.DB, email, password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		msg := "Something went wrong, please try again."
		if errors.Is(err, model.ErrInvalidCredentials) {
			msg = "Invalid email or password."
		} else {
			slog.Error("login failed", "error", err)
		}
		s.Templates.Render(w, "login.html", &PageData{Title: "Charity login", Error: msg})
		return
	}

	token, err := auth.NewSession(s.SessionSecret, charity.ID, charity.Name, charity.Email, charity.Postcode)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Charity login",
			Error: "Something went wrong, please try again.",
		})
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Register your charity"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	app := &model.CharityApplication{
		Name:               r.FormValue("name"),
		Email:              r.FormValue("email"),
		RegistrationNumber: r.FormValue("registration_number"),
		Postcode:           r.FormValue("postcode"),
		Address:            r.FormValue("address"),
		Phone:              r.FormValue("phone"),
		ContactPerson:      r.FormValue("contact_person"),
		ContactPosition:    r.FormValue("contact_position"),
		Password:           r.FormValue("password"),
	}

	charity, err := store.RegisterCharity(r.Context(), s.DB, app)
	if err != nil {
		metrics.Registrations.WithLabelValues("rejected").Inc()
		var ve *model.ValidationError
		msg := "Something went wrong, please try again."
		switch {
		case errors.As(err, &ve):
			msg = ve.Error()
		case errors.Is(err, model.ErrDuplicateEmail):
			msg = err.Error()
		default:
			slog.Error("registration failed", "error", err)
		}
		s.Templates.Render(w, "register.html", &PageData{Title: "Register your charity", Error: msg})
		return
	}

	metrics.Registrations.WithLabelValues("created").Inc()
	slog.Info("charity application submitted", "charity", charity.Name)
	s.Templates.Render(w, "register.html", &PageData{
		Title:   "Register your charity",
		Success: "Application received. We will email you once your charity has been approved.",
	})
}

// Logout handles POST /logout. The session is revoked server-side where
// possible; the cookie is cleared either way.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ParseSession(s.SessionSecret, cookie.Value); err == nil && claims.ID != "" {
			expiresAt := time.Now().Add(auth.SessionExpiry)
			if claims.ExpiresAt != nil {
				expiresAt = claims.ExpiresAt.Time
			}
			if err := store.RevokeSession(r.Context(), s.DB, claims.ID, expiresAt); err != nil {
				slog.Error("failed to revoke session", "error", err)
			}
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

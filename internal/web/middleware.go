package web

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/givespot/givespot/internal/auth"
	"github.com/givespot/givespot/internal/ratelimit"
	"github.com/givespot/givespot/internal/store"
)

type webContextKey string

const sessionKey webContextKey = "session"

const sessionCookie = "session"

// SessionMiddleware validates the session cookie and adds the claims to
// the request context. A missing cookie redirects to the login page. A
// cookie that no longer parses, whether expired, tampered with, or left
// over from an old deployment, is cleared before redirecting so the
// browser does not keep resending it.
func SessionMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			claims, err := auth.ParseSession(secret, cookie.Value)
			if err != nil {
				clearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if claims.ID != "" {
				revoked, err := store.IsSessionRevoked(r.Context(), db, claims.ID)
				if err != nil {
					slog.Error("failed to check session revocation", "error", err)
					clearSessionCookie(w)
					http.Redirect(w, r, "/login", http.StatusSeeOther)
					return
				}
				if revoked {
					clearSessionCookie(w)
					http.Redirect(w, r, "/login", http.StatusSeeOther)
					return
				}
			}

			ctx := context.WithValue(r.Context(), sessionKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// setSessionCookie sets the session cookie with consistent attributes.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.SessionExpiry.Seconds()),
	})
}

// clearSessionCookie clears the session cookie with consistent attributes.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetSession retrieves the session claims from the request context.
func GetSession(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(sessionKey).(*auth.Claims)
	return claims
}

// RateLimit rejects over-limit form submissions before they reach the
// credential check.
func RateLimit(rl *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(r.RemoteAddr) {
				http.Error(w, "too many requests, try again shortly", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package api

import (
	"database/sql"
	"net/http"

	"github.com/givespot/givespot/internal/ratelimit"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, sessionSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, SessionSecret: sessionSecret}
	charitiesHandler := &CharitiesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}

	authMW := AuthMiddleware(db, sessionSecret)
	loginLimit := RateLimit(ratelimit.New(1, 5))

	// Public: registration, login, and the browsable catalog.
	mux.Handle("POST /api/auth/login", loginLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/register", loginLimit(http.HandlerFunc(authHandler.Register)))
	mux.HandleFunc("GET /api/listings", itemsHandler.ListListings)
	mux.HandleFunc("GET /api/listings/{id}", itemsHandler.GetListing)
	mux.HandleFunc("GET /api/listings/{id}/photos/{pos}", itemsHandler.GetPhoto)

	// Authenticated: session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Authenticated: the charity's own account and items.
	mux.Handle("GET /api/charity", authMW(http.HandlerFunc(charitiesHandler.GetProfile)))
	mux.Handle("PUT /api/charity", authMW(http.HandlerFunc(charitiesHandler.UpdateProfile)))
	mux.Handle("GET /api/charity/stats", authMW(http.HandlerFunc(charitiesHandler.GetStats)))
	mux.Handle("GET /api/charity/items", authMW(http.HandlerFunc(itemsHandler.ListOwn)))
	mux.Handle("POST /api/charity/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/charity/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.UpdateStatus)))
	mux.Handle("POST /api/charity/items/{id}/photos", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))

	return mux
}

package web

import (
	"database/sql"
	"net/http"

	"github.com/givespot/givespot/internal/ratelimit"
	webembed "github.com/givespot/givespot/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, sessionSecret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:            db,
		Templates:     templates,
		SessionSecret: sessionSecret,
	}

	mux := http.NewServeMux()
	session := SessionMiddleware(sessionSecret, db)
	loginLimit := RateLimit(ratelimit.New(1, 5))

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes: the catalog is browsable without an account.
	mux.HandleFunc("GET /{$}", s.BrowsePage)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("GET /items/{id}/photos/{pos}", s.ItemPhotoGet)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.Handle("POST /login", loginLimit(http.HandlerFunc(s.LoginSubmit)))
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.Handle("POST /register", loginLimit(http.HandlerFunc(s.RegisterSubmit)))
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /dashboard", session(http.HandlerFunc(s.Dashboard)))
	mux.Handle("POST /dashboard/items", session(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("POST /dashboard/items/{id}/status", session(http.HandlerFunc(s.ItemStatusSubmit)))
	mux.Handle("POST /dashboard/items/{id}/photos", session(http.HandlerFunc(s.ItemPhotoSubmit)))
	mux.Handle("GET /profile", session(http.HandlerFunc(s.ProfilePage)))
	mux.Handle("POST /profile", session(http.HandlerFunc(s.ProfileSubmit)))
	mux.Handle("POST /profile/password", session(http.HandlerFunc(s.PasswordSubmit)))

	return mux, nil
}

package web

import (
	"log/slog"
	"net/http"

	"github.com/givespot/givespot/internal/model"
	"github.com/givespot/givespot/internal/store"
)

// Dashboard handles GET /dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetSession(r.Context())

	stats, err := store.GetCharityStats(r.Context(), s.DB, claims.CharityID)
	if err != nil {
		slog.Error("failed to load charity stats", "error", err)
		stats = &model.CharityStats{}
	}
	items, err := store.ListCharityItems(r.Context(), s.DB, claims.CharityID)
	if err != nil {
		slog.Error("failed to list charity items", "error", err)
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Stats *model.CharityStats
		Items []model.Item
	}{
		PageData: PageData{
			Title:   "Dashboard",
			Session: claims,
			Error:   r.FormValue("error"),
			Success: r.FormValue("success"),
		},
		Stats: stats,
		Items: items,
	})
}

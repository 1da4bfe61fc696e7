package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api", func(r chi.Router) {
		// Projects
		r.Get("/projects", h.ListProjects)
		r.Get("/project/{name}", h.GetProject)
		r.Get("/structure/{name}", h.GetStructure)
		r.Post("/open/{name}", h.OpenProject)

		// Favorites
		r.Post("/favorite", h.ToggleFavorite)
		r.Put("/favorite/{name}/notes", h.UpdateFavoriteNotes)
		r.Get("/favorites", h.ListFavorites)
		r.Put("/favorites/order", h.ReorderFavorites)

		// Tags
		r.Get("/tags", h.AllTags)
		r.Get("/tags/{name}", h.GetTags)
		r.Post("/tags/{name}", h.AddTag)
		r.Delete("/tags/{name}", h.RemoveTag)

		// Search
		r.Get("/search/language/{language}", h.SearchByLanguage)
		r.Get("/search/tag/{tag}", h.SearchByTag)

		// Git and diagnostics
		r.Get("/git/modified", h.ModifiedProjects)
		r.Get("/git/status", h.GitStatus)
		r.Get("/diagnostics/no-readme", h.NoReadme)

		// Statistics and maintenance
		r.Get("/statistics", h.Statistics)
		r.Get("/scans", h.ScanHistory)
		r.Post("/cache/clear", h.ClearCache)
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
	})
}

// NewRouter builds the full HTTP handler: middleware, API routes and,
// when staticDir exists, the frontend files at "/".
func NewRouter(h *Handlers, staticDir string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(Logger(logger))
	r.Use(chimw.Recoverer)

	MountRoutes(r, h)

	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(staticDir)))
		} else {
			logger.Warn("static dir not found, frontend disabled", "dir", staticDir)
		}
	}
	return r
}

package api

import (
	"errors"
	"net/http"

	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/store"
)

// DefaultTreeDepth is the structure depth when the query omits it.
const DefaultTreeDepth = 2

// Handlers holds the HTTP handlers of the dashboard API.
type Handlers struct {
	Dashboard *dashboard.Service
}

// --- Projects ---

// ListProjects handles GET /api/projects.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	views, err := h.Dashboard.Projects(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetProject handles GET /api/project/{name}. Every lookup failure is a
// 404 here, escapes included.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	view, err := h.Dashboard.Project(r.Context(), urlParam(r, "name"))
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetStructure handles GET /api/structure/{name}?depth=N.
func (h *Handlers) GetStructure(w http.ResponseWriter, r *http.Request) {
	depth, err := queryInt(r, "depth", DefaultTreeDepth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "depth must be an integer")
		return
	}
	tree, err := h.Dashboard.Manager().Tree(urlParam(r, "name"), depth)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// OpenProject handles POST /api/open/{name}?editor=code.
func (h *Handlers) OpenProject(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	editor := r.URL.Query().Get("editor")
	if editor == "" {
		editor = h.Dashboard.Manager().DefaultEditor()
	}
	if err := h.Dashboard.Manager().OpenInEditor(r.Context(), name, editor); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "opened " + name + " in " + editor,
	})
}

// --- Favorites ---

type favoriteRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// ToggleFavorite handles POST /api/favorite.
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[favoriteRequest](w, r, false)
	if !ok || !requireField(w, req.Name, "name") {
		return
	}
	on, err := h.Dashboard.ToggleFavorite(req.Name, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": req.Name, "is_favorite": on})
}

// ListFavorites handles GET /api/favorites.
func (h *Handlers) ListFavorites(w http.ResponseWriter, _ *http.Request) {
	favs, err := h.Dashboard.Favorites()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// UpdateFavoriteNotes handles PUT /api/favorite/{name}/notes.
func (h *Handlers) UpdateFavoriteNotes(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[notesRequest](w, r, false)
	if !ok {
		return
	}
	name := urlParam(r, "name")
	if err := h.Dashboard.UpdateFavoriteNotes(name, req.Notes); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "notes": req.Notes})
}

type orderRequest struct {
	Names []string `json:"names"`
}

// ReorderFavorites handles PUT /api/favorites/order.
func (h *Handlers) ReorderFavorites(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[orderRequest](w, r, false)
	if !ok {
		return
	}
	if err := h.Dashboard.ReorderFavorites(req.Names); err != nil {
		writeInternalError(w, err)
		return
	}
	h.ListFavorites(w, r)
}

// --- Tags ---

type tagRequest struct {
	Tag string `json:"tag"`
}

// GetTags handles GET /api/tags/{name}.
func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Dashboard.Tags(urlParam(r, "name"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// AddTag handles POST /api/tags/{name}.
func (h *Handlers) AddTag(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tagRequest](w, r, false)
	if !ok || !requireField(w, req.Tag, "tag") {
		return
	}
	tags, err := h.Dashboard.AddTag(urlParam(r, "name"), req.Tag)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// RemoveTag handles DELETE /api/tags/{name}. The tag comes from the JSON
// body or the ?tag= query parameter.
func (h *Handlers) RemoveTag(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tagRequest](w, r, true)
	if !ok {
		return
	}
	if req.Tag == "" {
		req.Tag = r.URL.Query().Get("tag")
	}
	if !requireField(w, req.Tag, "tag") {
		return
	}
	tags, err := h.Dashboard.RemoveTag(urlParam(r, "name"), req.Tag)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// AllTags handles GET /api/tags.
func (h *Handlers) AllTags(w http.ResponseWriter, _ *http.Request) {
	tags, err := h.Dashboard.AllTags()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// --- Search ---

// SearchByLanguage handles GET /api/search/language/{language}.
func (h *Handlers) SearchByLanguage(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Dashboard.SearchByLanguage(r.Context(), urlParam(r, "language"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// SearchByTag handles GET /api/search/tag/{tag}.
func (h *Handlers) SearchByTag(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Dashboard.SearchByTag(urlParam(r, "tag"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// --- Git / Diagnostics ---

// ModifiedProjects handles GET /api/git/modified.
func (h *Handlers) ModifiedProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.Dashboard.Manager().Modified(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GitStatus handles GET /api/git/status.
func (h *Handlers) GitStatus(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Dashboard.Manager().BatchGitStatus(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// NoReadme handles GET /api/diagnostics/no-readme.
func (h *Handlers) NoReadme(w http.ResponseWriter, _ *http.Request) {
	folders, err := h.Dashboard.Manager().WithoutReadme()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

// --- Statistics / Maintenance ---

// Statistics handles GET /api/statistics.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Statistics(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ScanHistory handles GET /api/scans?limit=N.
func (h *Handlers) ScanHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	scans, err := h.Dashboard.ScanHistory(limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

type clearCacheRequest struct {
	MaxAgeDays int `json:"max_age_days"`
}

// ClearCache handles POST /api/cache/clear.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[clearCacheRequest](w, r, true)
	if !ok {
		return
	}
	n, err := h.Dashboard.ClearCache(req.MaxAgeDays)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "deleted_count": n})
}

// Export handles GET /api/export.
func (h *Handlers) Export(w http.ResponseWriter, _ *http.Request) {
	data, err := h.Dashboard.Export()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// Import handles POST /api/import.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	data, ok := readJSON[store.ExportData](w, r, false)
	if !ok {
		return
	}
	res, err := h.Dashboard.Import(&data)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

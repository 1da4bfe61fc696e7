// Package dashboard joins the project pipeline with the metadata store.
//
// The REST API and both MCP surfaces serve these views. Project data
// always comes from the filesystem; the store only contributes user
// curation (favorites, tags) and bookkeeping (snapshots, scan history).
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/store"
)

// DefaultCacheMaxAgeDays is used when ClearCache gets a non-positive age.
const DefaultCacheMaxAgeDays = 7

const (
	favoritesWarnThreshold = 10
	cacheWarnThreshold     = 50
	suggestionSample       = 3
	topLanguageCount       = 10
)

// Store is the slice of the metadata store the service depends on.
type Store interface {
	IsFavorite(name string) (bool, error)
	Favorites() ([]string, error)
	FavoritesDetailed() ([]store.Favorite, error)
	ToggleFavorite(name, notes string) (bool, error)
	UpdateFavoriteNotes(name, notes string) error
	UpdateFavoriteOrder(names []string) error

	AddTag(name, tag string) (bool, error)
	RemoveTag(name, tag string) (bool, error)
	Tags(name string) ([]string, error)
	FindByTag(tag string) ([]string, error)
	AllTags() ([]store.TagCount, error)

	CacheSnapshot(p *project.Project) error
	CacheAge(name string) (int64, bool, error)
	ClearOldCache(days int) (int64, error)

	RecordScan(scanID string, projectsFound int, duration time.Duration) error
	ScanHistory(limit int) ([]store.Scan, error)
	Stats() (*store.Stats, error)

	Export() (*store.ExportData, error)
	Import(data *store.ExportData) (*store.ImportResult, error)
}

// ProjectView is a project record enriched with curation data.
type ProjectView struct {
	*project.Project
	IsFavorite      bool     `json:"is_favorite"`
	Tags            []string `json:"tags"`
	CacheAgeSeconds *int64   `json:"cache_age_seconds,omitempty"`
}

// FavoriteView is a favorite row joined with the project on disk.
type FavoriteView struct {
	store.Favorite
	Description string `json:"description"`
	Exists      bool   `json:"exists"`
}

// LanguageCount is the number of projects that use a language.
type LanguageCount struct {
	Language     string `json:"language"`
	ProjectCount int    `json:"project_count"`
}

// GitSummary counts projects per status kind.
type GitSummary struct {
	Clean    int `json:"clean"`
	Modified int `json:"modified"`
	NotGit   int `json:"not_git"`
	Errors   int `json:"errors"`
}

// Statistics is the workspace-wide summary.
type Statistics struct {
	TotalProjects        int             `json:"total_projects"`
	FavoritesCount       int             `json:"favorites_count"`
	TopLanguages         []LanguageCount `json:"top_languages"`
	GitStatus            GitSummary      `json:"git_status"`
	FoldersWithoutReadme int             `json:"folders_without_readme"`
	DatabaseStats        *store.Stats    `json:"database_stats"`
}

// Suggestion is one recommended follow-up action.
type Suggestion struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Items   []string `json:"items,omitempty"`
}

// Suggestion kinds.
const (
	SuggestCommit         = "commit_changes"
	SuggestOrganize       = "organize_favorites"
	SuggestReadme         = "add_readme"
	SuggestClearCache     = "clear_cache"
	SuggestNothingPending = "all_good"
)

// Service composes the Manager and the Store.
type Service struct {
	projects *project.Manager
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// New creates a Service.
func New(m *project.Manager, s Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		projects: m,
		store:    s,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Manager returns the underlying project manager.
func (s *Service) Manager() *project.Manager {
	return s.projects
}

// ─── Projects ────────────────────────────────────────────────────────────────

// Projects returns every recognized project with its full metadata.
// Each record is snapshotted and the scan is recorded in history.
func (s *Service) Projects(ctx context.Context) ([]ProjectView, error) {
	start := s.now()

	list, err := s.projects.List()
	if err != nil {
		return nil, err
	}

	views := make([]ProjectView, 0, len(list))
	for _, summary := range list {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := s.projects.Info(ctx, summary.Name)
		if err != nil {
			s.logger.Warn("skipping project", "project", summary.Name, "error", err)
			continue
		}
		view, err := s.enrich(info)
		if err != nil {
			return nil, err
		}
		if err := s.store.CacheSnapshot(info); err != nil {
			s.logger.Warn("cache snapshot failed", "project", info.Name, "error", err)
		}
		views = append(views, *view)
	}

	scanID := s.newID()
	if err := s.store.RecordScan(scanID, len(views), s.now().Sub(start)); err != nil {
		s.logger.Warn("recording scan failed", "scan_id", scanID, "error", err)
	}
	s.logger.Debug("scan complete", "scan_id", scanID, "projects", len(views))
	return views, nil
}

// Project returns one project with curation data and its cache age.
func (s *Service) Project(ctx context.Context, name string) (*ProjectView, error) {
	info, err := s.projects.Info(ctx, name)
	if err != nil {
		return nil, err
	}
	view, err := s.enrich(info)
	if err != nil {
		return nil, err
	}
	age, ok, err := s.store.CacheAge(name)
	if err != nil {
		return nil, err
	}
	if ok {
		view.CacheAgeSeconds = &age
	}
	return view, nil
}

func (s *Service) enrich(p *project.Project) (*ProjectView, error) {
	fav, err := s.store.IsFavorite(p.Name)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.Tags(p.Name)
	if err != nil {
		return nil, err
	}
	return &ProjectView{Project: p, IsFavorite: fav, Tags: tags}, nil
}

// summary builds the listing entry of an existing project.
func (s *Service) summary(name string) (project.Summary, bool) {
	path, err := s.projects.Resolve(name)
	if err != nil || !project.HasReadme(path) {
		return project.Summary{}, false
	}
	return project.Summary{Name: name, Path: path, Description: project.ReadDescription(path)}, true
}

// ─── Favorites ───────────────────────────────────────────────────────────────

// ToggleFavorite flips the favorite flag of an existing project.
func (s *Service) ToggleFavorite(name, notes string) (bool, error) {
	if _, err := s.projects.Resolve(name); err != nil {
		return false, err
	}
	return s.store.ToggleFavorite(name, notes)
}

// Favorites returns favorites in display order. Favorites whose project
// has disappeared are kept and flagged.
func (s *Service) Favorites() ([]FavoriteView, error) {
	favs, err := s.store.FavoritesDetailed()
	if err != nil {
		return nil, err
	}
	views := make([]FavoriteView, 0, len(favs))
	for _, f := range favs {
		v := FavoriteView{Favorite: f}
		if sum, ok := s.summary(f.Name); ok {
			v.Description = sum.Description
			v.Exists = true
		}
		views = append(views, v)
	}
	return views, nil
}

// UpdateFavoriteNotes replaces the notes of a favorite.
func (s *Service) UpdateFavoriteNotes(name, notes string) error {
	return s.store.UpdateFavoriteNotes(name, notes)
}

// ReorderFavorites stores a new favorite order.
func (s *Service) ReorderFavorites(names []string) error {
	return s.store.UpdateFavoriteOrder(names)
}

// ─── Tags ────────────────────────────────────────────────────────────────────

// AddTag tags an existing project and returns its tags.
func (s *Service) AddTag(name, tag string) ([]string, error) {
	if _, err := s.projects.Resolve(name); err != nil {
		return nil, err
	}
	if _, err := s.store.AddTag(name, tag); err != nil {
		return nil, err
	}
	return s.store.Tags(name)
}

// RemoveTag untags a project and returns its remaining tags.
func (s *Service) RemoveTag(name, tag string) ([]string, error) {
	if _, err := s.store.RemoveTag(name, tag); err != nil {
		return nil, err
	}
	return s.store.Tags(name)
}

// Tags returns the tags of a project, newest first.
func (s *Service) Tags(name string) ([]string, error) {
	return s.store.Tags(name)
}

// AllTags returns every tag with its usage count.
func (s *Service) AllTags() ([]store.TagCount, error) {
	return s.store.AllTags()
}

// ─── Search ──────────────────────────────────────────────────────────────────

// SearchByLanguage delegates to the manager.
func (s *Service) SearchByLanguage(ctx context.Context, label string) ([]project.LanguageMatch, error) {
	return s.projects.SearchByLanguage(ctx, label)
}

// SearchByTag returns the existing projects carrying tag.
func (s *Service) SearchByTag(tag string) ([]project.Summary, error) {
	names, err := s.store.FindByTag(tag)
	if err != nil {
		return nil, err
	}
	out := []project.Summary{}
	for _, name := range names {
		if sum, ok := s.summary(name); ok {
			out = append(out, sum)
		}
	}
	return out, nil
}

// ─── Statistics / Suggestions ────────────────────────────────────────────────

// Statistics summarizes the whole workspace.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	list, err := s.projects.List()
	if err != nil {
		return nil, err
	}

	stats := &Statistics{TotalProjects: len(list), TopLanguages: []LanguageCount{}}
	langCounts := map[string]int{}
	for _, summary := range list {
		info, err := s.projects.Info(ctx, summary.Name)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			s.logger.Warn("skipping project", "project", summary.Name, "error", err)
			continue
		}
		for lang := range info.Languages {
			langCounts[lang]++
		}
		switch info.GitStatus.Kind {
		case project.StatusClean:
			stats.GitStatus.Clean++
		case project.StatusModified:
			stats.GitStatus.Modified++
		case project.StatusNotARepo:
			stats.GitStatus.NotGit++
		default:
			stats.GitStatus.Errors++
		}
	}

	for lang, n := range langCounts {
		stats.TopLanguages = append(stats.TopLanguages, LanguageCount{Language: lang, ProjectCount: n})
	}
	sort.Slice(stats.TopLanguages, func(i, j int) bool {
		a, b := stats.TopLanguages[i], stats.TopLanguages[j]
		if a.ProjectCount != b.ProjectCount {
			return a.ProjectCount > b.ProjectCount
		}
		return a.Language < b.Language
	})
	if len(stats.TopLanguages) > topLanguageCount {
		stats.TopLanguages = stats.TopLanguages[:topLanguageCount]
	}

	favs, err := s.store.Favorites()
	if err != nil {
		return nil, err
	}
	stats.FavoritesCount = len(favs)

	missing, err := s.projects.WithoutReadme()
	if err != nil {
		return nil, err
	}
	stats.FoldersWithoutReadme = len(missing)

	if stats.DatabaseStats, err = s.store.Stats(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Suggestions returns follow-up actions derived from the current state.
// It always returns at least one entry.
func (s *Service) Suggestions(ctx context.Context) ([]Suggestion, error) {
	var out []Suggestion

	modified, err := s.projects.Modified(ctx)
	if err != nil {
		return nil, err
	}
	if len(modified) > 0 {
		var items []string
		for _, m := range head(modified, suggestionSample) {
			items = append(items, fmt.Sprintf("%s: %s", m.Name, m.GitDetail))
		}
		out = append(out, Suggestion{
			Kind:    SuggestCommit,
			Message: fmt.Sprintf("%d project(s) have uncommitted changes", len(modified)),
			Items:   items,
		})
	}

	favs, err := s.store.Favorites()
	if err != nil {
		return nil, err
	}
	if len(favs) > favoritesWarnThreshold {
		out = append(out, Suggestion{
			Kind:    SuggestOrganize,
			Message: fmt.Sprintf("%d favorites; consider grouping them with tags", len(favs)),
		})
	}

	missing, err := s.projects.WithoutReadme()
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		out = append(out, Suggestion{
			Kind:    SuggestReadme,
			Message: fmt.Sprintf("%d folder(s) have no README.md", len(missing)),
			Items:   head(missing, suggestionSample),
		})
	}

	stats, err := s.store.Stats()
	if err != nil {
		return nil, err
	}
	if stats.CachedProjects > cacheWarnThreshold {
		out = append(out, Suggestion{
			Kind:    SuggestClearCache,
			Message: fmt.Sprintf("%d cached snapshots; clear old cache entries", stats.CachedProjects),
		})
	}

	if len(out) == 0 {
		out = append(out, Suggestion{Kind: SuggestNothingPending, Message: "All projects look good"})
	}
	return out, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// ─── Maintenance ─────────────────────────────────────────────────────────────

// ClearCache removes snapshots older than days.
func (s *Service) ClearCache(days int) (int64, error) {
	if days <= 0 {
		days = DefaultCacheMaxAgeDays
	}
	n, err := s.store.ClearOldCache(days)
	if err != nil {
		return 0, err
	}
	s.logger.Info("cleared cache", "max_age_days", days, "removed", n)
	return n, nil
}

// ScanHistory returns the most recent scans.
func (s *Service) ScanHistory(limit int) ([]store.Scan, error) {
	return s.store.ScanHistory(limit)
}

// Export dumps favorites and tags.
func (s *Service) Export() (*store.ExportData, error) {
	return s.store.Export()
}

// Import merges favorites and tags.
func (s *Service) Import(data *store.ExportData) (*store.ImportResult, error) {
	if data == nil {
		return nil, errors.New("import: no data")
	}
	return s.store.Import(data)
}

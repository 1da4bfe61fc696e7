// Package store persists user curation for the dashboard: favorites,
// tags, cached project snapshots and scan history.
//
// It uses SQLite through modernc.org/sqlite, so no cgo toolchain is
// needed. The store is never read by the aggregation pipeline; cached
// rows only feed the "last scanned" views.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/devdash/internal/project"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeLayout is the SQLite-friendly UTC timestamp format used in every
// table. Values sort lexically in time order.
const timeLayout = "2006-01-02 15:04:05"

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrEmptyTag means a tag was blank after normalization.
	ErrEmptyTag = errors.New("store: empty tag")
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Favorite is a starred project with its position and notes.
type Favorite struct {
	Name       string  `json:"name"`
	AddedAt    string  `json:"added_at"`
	OrderIndex int     `json:"order_index"`
	Notes      *string `json:"notes,omitempty"`
}

// CachedProject is the last recorded snapshot of a project.
type CachedProject struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Languages    map[string]int      `json:"languages"`
	Dependencies map[string][]string `json:"dependencies"`
	GitStatus    project.GitStatus   `json:"git_status"`
	HasGit       bool                `json:"has_git"`
	LastScan     string              `json:"last_scan"`
}

// TagEntry is one project/tag association.
type TagEntry struct {
	Project   string `json:"project"`
	Tag       string `json:"tag"`
	CreatedAt string `json:"created_at"`
}

// TagCount is a tag with the number of projects carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Scan is one scan-history row.
type Scan struct {
	ID            int64  `json:"id"`
	ScanID        string `json:"scan_id"`
	ScanTime      string `json:"scan_time"`
	ProjectsFound int    `json:"projects_found"`
	DurationMS    int64  `json:"scan_duration_ms"`
}

// Stats holds aggregate store statistics.
type Stats struct {
	Favorites      int     `json:"favorites"`
	CachedProjects int     `json:"cached_projects"`
	TaggedProjects int     `json:"tagged_projects"`
	UniqueTags     int     `json:"unique_tags"`
	TotalScans     int     `json:"total_scans"`
	LastScan       *string `json:"last_scan,omitempty"`
}

// ExportData is the portable dump of user curation. Cache rows and scan
// history are derived data and are not exported.
type ExportData struct {
	Version    string     `json:"version"`
	ExportedAt string     `json:"exported_at"`
	Favorites  []Favorite `json:"favorites"`
	Tags       []TagEntry `json:"tags"`
}

// ImportResult holds counts of imported records.
type ImportResult struct {
	FavoritesImported int `json:"favorites_imported"`
	TagsImported      int `json:"tags_imported"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration. DBPath, when set, takes precedence
// over DataDir.
type Config struct {
	DataDir string
	DBPath  string
}

// DefaultConfig stores the database under ~/.devdash.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".devdash")}
}

func (c Config) path() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "devdash.db")
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the metadata store backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
	now func() time.Time
}

// New opens (creating if needed) the database and runs migrations.
func New(cfg Config) (*Store, error) {
	dbPath := cfg.path()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	s := &Store{db: db, cfg: cfg, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// connPragmas are applied by the driver to every pooled connection.
var connPragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
}

func dsn(path string) string {
	var b strings.Builder
	b.WriteString(path)
	for i, p := range connPragmas {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString("_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.cfg.path()
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// ParseTime parses a timestamp column value as UTC.
func ParseTime(v string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, v, time.UTC)
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS favorites (
			name        TEXT PRIMARY KEY,
			added_at    TEXT    NOT NULL,
			order_index INTEGER NOT NULL DEFAULT 0,
			notes       TEXT
		);

		CREATE TABLE IF NOT EXISTS project_cache (
			name         TEXT PRIMARY KEY,
			description  TEXT    NOT NULL,
			languages    TEXT    NOT NULL,
			dependencies TEXT    NOT NULL,
			git_status   TEXT    NOT NULL,
			git_detail   TEXT    NOT NULL,
			has_git      INTEGER NOT NULL DEFAULT 0,
			last_scan    TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS project_tags (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			project_name TEXT NOT NULL,
			tag          TEXT NOT NULL,
			created_at   TEXT NOT NULL,
			UNIQUE(project_name, tag)
		);

		CREATE TABLE IF NOT EXISTS scan_history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id          TEXT    NOT NULL,
			scan_time        TEXT    NOT NULL,
			projects_found   INTEGER NOT NULL,
			scan_duration_ms INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tags_project ON project_tags(project_name);
		CREATE INDEX IF NOT EXISTS idx_tags_tag ON project_tags(tag);
		CREATE INDEX IF NOT EXISTS idx_cache_last_scan ON project_cache(last_scan);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Favorites ───────────────────────────────────────────────────────────────

// IsFavorite reports whether name is starred.
func (s *Store) IsFavorite(name string) (bool, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM favorites WHERE name = ?", name).Scan(&n); err != nil {
		return false, fmt.Errorf("store: is favorite: %w", err)
	}
	return n > 0, nil
}

// Favorites returns favorite names in display order.
func (s *Store) Favorites() ([]string, error) {
	favs, err := s.FavoritesDetailed()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(favs))
	for i, f := range favs {
		names[i] = f.Name
	}
	return names, nil
}

// FavoritesDetailed returns every favorite row in display order.
func (s *Store) FavoritesDetailed() ([]Favorite, error) {
	rows, err := s.db.Query(
		"SELECT name, added_at, order_index, notes FROM favorites ORDER BY order_index, added_at, name",
	)
	if err != nil {
		return nil, fmt.Errorf("store: list favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	favs := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.Name, &f.AddedAt, &f.OrderIndex, &f.Notes); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// AddFavorite stars name at the end of the list. Adding an existing
// favorite is a no-op.
func (s *Store) AddFavorite(name, notes string) error {
	return addFavorite(s.db, name, notes, s.timestamp())
}

func addFavorite(db execer, name, notes, now string) error {
	_, err := db.Exec(
		`INSERT OR IGNORE INTO favorites (name, added_at, order_index, notes)
		 VALUES (?, ?, (SELECT COALESCE(MAX(order_index) + 1, 0) FROM favorites), ?)`,
		name, now, nullableString(notes),
	)
	if err != nil {
		return fmt.Errorf("store: add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unstars name. Removing a missing favorite is a no-op.
func (s *Store) RemoveFavorite(name string) error {
	if _, err := s.db.Exec("DELETE FROM favorites WHERE name = ?", name); err != nil {
		return fmt.Errorf("store: remove favorite: %w", err)
	}
	return nil
}

// ToggleFavorite flips the favorite state of name and returns the new
// state. notes only apply when the project becomes a favorite.
func (s *Store) ToggleFavorite(name, notes string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("store: toggle favorite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM favorites WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("store: toggle favorite: %w", err)
	}
	removed, _ := res.RowsAffected()
	if removed == 0 {
		if err := addFavorite(tx, name, notes, s.timestamp()); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: toggle favorite: commit: %w", err)
	}
	return removed == 0, nil
}

// UpdateFavoriteOrder assigns positions following names. Names that are
// not favorites are skipped.
func (s *Store) UpdateFavoriteOrder(names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: reorder favorites: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, name := range names {
		if _, err := tx.Exec("UPDATE favorites SET order_index = ? WHERE name = ?", i, name); err != nil {
			return fmt.Errorf("store: reorder favorites: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: reorder favorites: commit: %w", err)
	}
	return nil
}

// UpdateFavoriteNotes replaces the notes of an existing favorite. An
// empty string clears them.
func (s *Store) UpdateFavoriteNotes(name, notes string) error {
	res, err := s.db.Exec("UPDATE favorites SET notes = ? WHERE name = ?", nullableString(notes), name)
	if err != nil {
		return fmt.Errorf("store: update favorite notes: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("favorite %q: %w", name, ErrNotFound)
	}
	return nil
}

// ─── Cache ───────────────────────────────────────────────────────────────────

// CacheSnapshot records p as the latest scan of that project.
func (s *Store) CacheSnapshot(p *project.Project) error {
	langs, err := json.Marshal(p.Languages)
	if err != nil {
		return fmt.Errorf("store: encode languages: %w", err)
	}
	deps, err := json.Marshal(p.Dependencies)
	if err != nil {
		return fmt.Errorf("store: encode dependencies: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO project_cache
		   (name, description, languages, dependencies, git_status, git_detail, has_git, last_scan)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, string(langs), string(deps),
		string(p.GitStatus.Kind), p.GitStatus.Detail, p.HasGit, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("store: cache snapshot: %w", err)
	}
	return nil
}

// CachedProject returns the last snapshot of name.
func (s *Store) CachedProject(name string) (*CachedProject, error) {
	var (
		c            CachedProject
		langs, deps  string
		kind, detail string
	)
	err := s.db.QueryRow(
		`SELECT name, description, languages, dependencies, git_status, git_detail, has_git, last_scan
		 FROM project_cache WHERE name = ?`, name,
	).Scan(&c.Name, &c.Description, &langs, &deps, &kind, &detail, &c.HasGit, &c.LastScan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cached project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: cached project: %w", err)
	}

	if err := json.Unmarshal([]byte(langs), &c.Languages); err != nil {
		return nil, fmt.Errorf("store: decode languages: %w", err)
	}
	if err := json.Unmarshal([]byte(deps), &c.Dependencies); err != nil {
		return nil, fmt.Errorf("store: decode dependencies: %w", err)
	}
	c.GitStatus = project.GitStatus{Kind: project.StatusKind(kind), Detail: detail}
	return &c, nil
}

// CacheAge returns the seconds elapsed since name was last snapshotted.
// ok is false when there is no snapshot.
func (s *Store) CacheAge(name string) (seconds int64, ok bool, err error) {
	var last string
	err = s.db.QueryRow("SELECT last_scan FROM project_cache WHERE name = ?", name).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: cache age: %w", err)
	}

	t, err := ParseTime(last)
	if err != nil {
		return 0, false, fmt.Errorf("store: cache age: parse %q: %w", last, err)
	}
	age := int64(s.now().UTC().Sub(t) / time.Second)
	if age < 0 {
		age = 0
	}
	return age, true, nil
}

// ClearOldCache deletes snapshots older than days and returns how many
// rows were removed.
func (s *Store) ClearOldCache(days int) (int64, error) {
	cutoff := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour).Format(timeLayout)
	res, err := s.db.Exec("DELETE FROM project_cache WHERE last_scan < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("store: clear cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ─── Tags ────────────────────────────────────────────────────────────────────

// NormalizeTag trims and lower-cases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// AddTag attaches tag to name. It reports false when the pair already
// existed.
func (s *Store) AddTag(name, tag string) (bool, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false, ErrEmptyTag
	}
	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO project_tags (project_name, tag, created_at) VALUES (?, ?, ?)",
		name, tag, s.timestamp(),
	)
	if err != nil {
		return false, fmt.Errorf("store: add tag: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RemoveTag detaches tag from name. It reports false when the pair did
// not exist.
func (s *Store) RemoveTag(name, tag string) (bool, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false, ErrEmptyTag
	}
	res, err := s.db.Exec("DELETE FROM project_tags WHERE project_name = ? AND tag = ?", name, tag)
	if err != nil {
		return false, fmt.Errorf("store: remove tag: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Tags returns the tags of name, newest first.
func (s *Store) Tags(name string) ([]string, error) {
	return s.queryStrings(
		"SELECT tag FROM project_tags WHERE project_name = ? ORDER BY created_at DESC, id DESC",
		name,
	)
}

// FindByTag returns the projects carrying tag, sorted by name.
func (s *Store) FindByTag(tag string) ([]string, error) {
	return s.queryStrings(
		"SELECT project_name FROM project_tags WHERE tag = ? ORDER BY project_name",
		NormalizeTag(tag),
	)
}

// AllTags returns every tag with its project count, most used first.
func (s *Store) AllTags() ([]TagCount, error) {
	rows, err := s.db.Query(
		"SELECT tag, COUNT(*) AS n FROM project_tags GROUP BY tag ORDER BY n DESC, tag",
	)
	if err != nil {
		return nil, fmt.Errorf("store: all tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

// ─── Scan History ────────────────────────────────────────────────────────────

// RecordScan appends a scan-history row.
func (s *Store) RecordScan(scanID string, projectsFound int, duration time.Duration) error {
	_, err := s.db.Exec(
		"INSERT INTO scan_history (scan_id, scan_time, projects_found, scan_duration_ms) VALUES (?, ?, ?, ?)",
		scanID, s.timestamp(), projectsFound, duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("store: record scan: %w", err)
	}
	return nil
}

// ScanHistory returns the most recent scans, newest first.
func (s *Store) ScanHistory(limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, scan_id, scan_time, projects_found, scan_duration_ms
		 FROM scan_history ORDER BY scan_time DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: scan history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	scans := []Scan{}
	for rows.Next() {
		var sc Scan
		if err := rows.Scan(&sc.ID, &sc.ScanID, &sc.ScanTime, &sc.ProjectsFound, &sc.DurationMS); err != nil {
			return nil, err
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate store statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	_ = s.db.QueryRow("SELECT COUNT(*) FROM favorites").Scan(&stats.Favorites)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM project_cache").Scan(&stats.CachedProjects)
	_ = s.db.QueryRow("SELECT COUNT(DISTINCT project_name) FROM project_tags").Scan(&stats.TaggedProjects)
	_ = s.db.QueryRow("SELECT COUNT(DISTINCT tag) FROM project_tags").Scan(&stats.UniqueTags)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM scan_history").Scan(&stats.TotalScans)
	_ = s.db.QueryRow("SELECT MAX(scan_time) FROM scan_history").Scan(&stats.LastScan)

	return stats, nil
}

// ─── Export / Import ─────────────────────────────────────────────────────────

// Export dumps favorites and tags.
func (s *Store) Export() (*ExportData, error) {
	favs, err := s.FavoritesDetailed()
	if err != nil {
		return nil, fmt.Errorf("export favorites: %w", err)
	}
	data := &ExportData{
		Version:    "1",
		ExportedAt: s.timestamp(),
		Favorites:  favs,
		Tags:       []TagEntry{},
	}

	rows, err := s.db.Query("SELECT project_name, tag, created_at FROM project_tags ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("export tags: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var te TagEntry
		if err := rows.Scan(&te.Project, &te.Tag, &te.CreatedAt); err != nil {
			return nil, err
		}
		data.Tags = append(data.Tags, te)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Import merges exported data. Existing favorites and tags are kept.
func (s *Store) Import(data *ExportData) (*ImportResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("import: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := &ImportResult{}
	now := s.timestamp()

	for _, f := range data.Favorites {
		added := f.AddedAt
		if added == "" {
			added = now
		}
		res, err := tx.Exec(
			`INSERT OR IGNORE INTO favorites (name, added_at, order_index, notes)
			 VALUES (?, ?, ?, ?)`,
			f.Name, added, f.OrderIndex, f.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("import favorite %s: %w", f.Name, err)
		}
		n, _ := res.RowsAffected()
		result.FavoritesImported += int(n)
	}

	for _, te := range data.Tags {
		tag := NormalizeTag(te.Tag)
		if tag == "" {
			continue
		}
		created := te.CreatedAt
		if created == "" {
			created = now
		}
		res, err := tx.Exec(
			"INSERT OR IGNORE INTO project_tags (project_name, tag, created_at) VALUES (?, ?, ?)",
			te.Project, tag, created,
		)
		if err != nil {
			return nil, fmt.Errorf("import tag %s/%s: %w", te.Project, tag, err)
		}
		n, _ := res.RowsAffected()
		result.TagsImported += int(n)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("import: commit: %w", err)
	}
	return result, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) queryStrings(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

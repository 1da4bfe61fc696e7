package project

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HendryAvila/devdash/internal/ignore"
)

// extensionLabels maps lower-cased file extensions to language labels.
var extensionLabels = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".jsx":   "React",
	".tsx":   "React",
	".rs":    "Rust",
	".go":    "Go",
	".java":  "Java",
	".cpp":   "C++",
	".c":     "C",
	".cs":    "C#",
	".php":   "PHP",
	".rb":    "Ruby",
	".swift": "Swift",
	".kt":    "Kotlin",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "SCSS",
	".vue":   "Vue",
	".sql":   "SQL",
	".sh":    "Shell",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".xml":   "XML",
	".md":    "Markdown",
}

// LabelForFile returns the language label of a file name, matching the
// extension case-insensitively.
func LabelForFile(name string) (string, bool) {
	label, ok := extensionLabels[strings.ToLower(filepath.Ext(name))]
	return label, ok
}

// Classification is the result of one language walk.
type Classification struct {
	// Languages maps label to its rounded share of classified files.
	Languages map[string]int `json:"languages"`
	// Files maps label to the raw file count.
	Files map[string]int `json:"files"`
	// Skipped lists directories that could not be read.
	Skipped []string `json:"skipped,omitempty"`
}

// Total returns the number of classified files.
func (c Classification) Total() int {
	n := 0
	for _, count := range c.Files {
		n += count
	}
	return n
}

// Classifier computes language distributions.
type Classifier struct {
	ignore *ignore.Matcher
	logger *slog.Logger
}

// NewClassifier creates a Classifier. A nil matcher applies the static
// ignore rules only.
func NewClassifier(m *ignore.Matcher, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{ignore: m, logger: logger}
}

// Classify walks projectPath and returns the language distribution.
//
// A projectPath that is itself a symlink is followed. Percentages are
// apportioned by largest remainder, so they always sum to 100. Labels
// that receive 0 are dropped and never appear in Languages. Unreadable
// subtrees are skipped and reported in Skipped.
func (c *Classifier) Classify(projectPath string) Classification {
	result := Classification{
		Languages: map[string]int{},
		Files:     map[string]int{},
	}

	walkRoot := projectPath
	if resolved, err := filepath.EvalSymlinks(projectPath); err == nil {
		walkRoot = resolved
	}
	scope := c.ignore.Scope(walkRoot)

	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped := path
			if rel, relErr := filepath.Rel(walkRoot, path); relErr == nil {
				skipped = filepath.Join(projectPath, rel)
			}
			c.logger.Debug("skipping unreadable path", "path", skipped, "error", err)
			result.Skipped = append(result.Skipped, skipped)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != walkRoot && scope.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		label, ok := LabelForFile(d.Name())
		if !ok || scope.SkipFile(path) {
			return nil
		}
		result.Files[label]++
		return nil
	})

	for label, pct := range apportion(result.Files) {
		if pct > 0 {
			result.Languages[label] = pct
		}
	}
	return result
}

// apportion splits 100 points across counts with the largest remainder
// method. Ties on the remainder go to the alphabetically first label.
func apportion(counts map[string]int) map[string]int {
	total := 0
	for _, n := range counts {
		total += n
	}
	out := make(map[string]int, len(counts))
	if total == 0 {
		return out
	}

	type share struct {
		label string
		rem   int
	}
	shares := make([]share, 0, len(counts))
	assigned := 0
	for label, n := range counts {
		pct := n * 100 / total
		out[label] = pct
		assigned += pct
		shares = append(shares, share{label: label, rem: n * 100 % total})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].rem != shares[j].rem {
			return shares[i].rem > shares[j].rem
		}
		return shares[i].label < shares[j].label
	})
	for i := 0; i < 100-assigned; i++ {
		out[shares[i].label]++
	}
	return out
}

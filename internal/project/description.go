package project

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const (
	readmeName        = "README.md"
	maxDescriptionLen = 100
)

// HasReadme reports whether dir contains a README.md file.
func HasReadme(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, readmeName))
	return err == nil && !info.IsDir()
}

// ReadDescription returns the text of the first Markdown heading in the
// project's README.md, truncated to 100 characters. It falls back to
// NoDescription when the file is unreadable or has no heading.
func ReadDescription(projectPath string) string {
	f, err := os.Open(filepath.Join(projectPath, readmeName))
	if err != nil {
		return NoDescription
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			continue
		}
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if title == "" {
			continue
		}
		return truncateRunes(title, maxDescriptionLen)
	}
	return NoDescription
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

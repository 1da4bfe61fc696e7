package project

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/mod/modfile"
)

// MaxDependencies caps the identifiers kept per ecosystem.
const MaxDependencies = 10

type manifest struct {
	file      string
	ecosystem string
	parse     func(data []byte) ([]string, error)
}

var manifests = []manifest{
	{file: "requirements.txt", ecosystem: "python", parse: parseRequirements},
	{file: "package.json", ecosystem: "node", parse: parsePackageJSON},
	{file: "go.mod", ecosystem: "go", parse: parseGoMod},
}

// ExtractDependencies reads the manifests present in projectPath.
// Missing, unreadable or malformed manifests are left out of the result.
func ExtractDependencies(projectPath string) map[string][]string {
	deps := map[string][]string{}
	for _, m := range manifests {
		data, err := os.ReadFile(filepath.Join(projectPath, m.file))
		if err != nil {
			continue
		}
		list, err := m.parse(data)
		if err != nil {
			continue
		}
		if len(list) > MaxDependencies {
			list = list[:MaxDependencies]
		}
		deps[m.ecosystem] = list
	}
	return deps
}

// parseRequirements keeps every non-blank line that is not a comment.
func parseRequirements(data []byte) ([]string, error) {
	list := []string{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	return list, sc.Err()
}

// parsePackageJSON returns the keys of the top-level "dependencies"
// object in file order.
func parsePackageJSON(data []byte) ([]string, error) {
	if !json.Valid(data) {
		return nil, errors.New("package.json: invalid JSON")
	}
	list := []string{}
	err := jsonparser.ObjectEach(data, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		list = append(list, name)
		return nil
	}, "dependencies")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return list, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// parseGoMod returns the direct require paths in file order.
func parseGoMod(data []byte) ([]string, error) {
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return nil, err
	}
	list := []string{}
	for _, r := range f.Require {
		if r.Indirect {
			continue
		}
		list = append(list, r.Mod.Path)
	}
	return list, nil
}

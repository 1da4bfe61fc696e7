// Package project implements the metadata aggregation pipeline: path
// validation, language classification, Git status probing, dependency
// extraction and tree building, composed by Manager.
//
// Every operation recomputes from the filesystem. Nothing here reads a
// cache or keeps state between calls beyond the immutable Manager
// configuration.
package project

import (
	"encoding/json"
	"errors"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrInvalidPath means the name resolves outside the scan root.
	ErrInvalidPath = errors.New("invalid project path")
	// ErrNotFound means the named project does not exist.
	ErrNotFound = errors.New("project not found")
)

// NoDescription is the description used when README.md has no heading.
const NoDescription = "No description available"

// StatusKind is the coarse version-control state of a project.
type StatusKind string

const (
	StatusClean    StatusKind = "Clean"
	StatusModified StatusKind = "Modified"
	StatusNotARepo StatusKind = "NotARepo"
	StatusError    StatusKind = "Error"
)

// StatusKinds lists every kind in display order.
var StatusKinds = []StatusKind{StatusClean, StatusModified, StatusNotARepo, StatusError}

// GitStatus pairs a status kind with a human-readable detail.
type GitStatus struct {
	Kind   StatusKind `json:"kind"`
	Detail string     `json:"detail"`
}

// Project is the full metadata record of one recognized project.
type Project struct {
	Name         string              `json:"name"`
	Path         string              `json:"path"`
	Description  string              `json:"description"`
	Languages    map[string]int      `json:"languages"`
	GitStatus    GitStatus           `json:"git_status"`
	HasGit       bool                `json:"has_git"`
	Dependencies map[string][]string `json:"dependencies"`
}

// Summary is the lightweight listing entry for a project.
type Summary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// LanguageMatch is a search hit with the share of the requested language.
type LanguageMatch struct {
	Summary
	LanguagePercentage int `json:"language_percentage"`
}

// ModifiedProject is a project with uncommitted changes.
type ModifiedProject struct {
	Summary
	GitDetail string `json:"git_detail"`
}

// NodeType distinguishes files from folders in a tree.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// TreeNode is one entry of a depth-bounded directory tree.
type TreeNode struct {
	Name     string      `json:"name"`
	Type     NodeType    `json:"type"`
	Children []*TreeNode `json:"children,omitempty"`
	// Partial is set when the folder's entries could not be listed.
	Partial bool `json:"partial,omitempty"`
}

// MarshalJSON always emits children for folders, even when empty.
func (n *TreeNode) MarshalJSON() ([]byte, error) {
	type plain TreeNode
	if n.Type != NodeFolder {
		return json.Marshal((*plain)(n))
	}
	children := n.Children
	if children == nil {
		children = []*TreeNode{}
	}
	return json.Marshal(struct {
		Name     string      `json:"name"`
		Type     NodeType    `json:"type"`
		Children []*TreeNode `json:"children"`
		Partial  bool        `json:"partial,omitempty"`
	}{n.Name, n.Type, children, n.Partial})
}

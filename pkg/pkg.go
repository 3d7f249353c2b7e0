// Package pkg holds project metadata and the per-user directories shared by
// the command-line tools.
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the semantic version of the module.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command identifier. It appears in help text and
	// names the per-user config and cache directories.
	Name = "aocl"
	// Description is a short summary used in help output.
	Description = "Puzzle solution scripting language"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

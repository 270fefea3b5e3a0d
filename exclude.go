package selfupdate

import (
	"path"
	"path/filepath"
	"strings"
)

// ExcludeFunc reports whether the file at the relative path must be left untouched by an update.
type ExcludeFunc func(relativePath string) bool

// DefaultProtected are the path segments an update never overwrites:
// version-control metadata, editor state, caches, virtual environments and the reserved workspace.
var DefaultProtected = []string{
	".git",
	".github",
	".gitignore",
	".vs",
	".vscode",
	".pio",
	"__pycache__",
	"*.pyc",
	"*.pyo",
	"venv",
	"env",
	".claude",
}

// NewSegmentExcluder returns an ExcludeFunc matching a relative path when any of its segments
// is one of the names. A name containing a glob metacharacter is also matched with path.Match.
func NewSegmentExcluder(names ...string) ExcludeFunc {
	exact := make(map[string]struct{}, len(names))
	patterns := make([]string, 0)
	for _, name := range names {
		if name == "" {
			continue
		}
		exact[name] = struct{}{}
		if strings.ContainsAny(name, "*?[") {
			patterns = append(patterns, name)
		}
	}

	return func(relativePath string) bool {
		for _, segment := range strings.Split(filepath.ToSlash(relativePath), "/") {
			if segment == "" || segment == "." {
				continue
			}
			if _, found := exact[segment]; found {
				return true
			}
			for _, pattern := range patterns {
				if matched, _ := path.Match(pattern, segment); matched {
					return true
				}
			}
		}
		return false
	}
}

// noExclusion keeps every file
func noExclusion(string) bool {
	return false
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	config "github.com/paintmcp/paintd/config"
	domain "github.com/paintmcp/paintd/internal/domain"
)

// PathGuard decides whether save and fetch operations may touch a given
// filesystem path. Deny rules use gitignore pattern syntax, so operators
// can write familiar globs like "**/*.exe" or "/etc/**".
type PathGuard struct {
	root    string
	matcher *gitignore.GitIgnore
	enabled bool
}

// NewPathGuard compiles the guard from config. With the guard disabled
// every path is allowed.
func NewPathGuard(cfg config.GuardConfig) (*PathGuard, error) {
	if !cfg.Enabled {
		return &PathGuard{enabled: false}, nil
	}

	root := cfg.Root
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve guard root %q: %w", root, err)
		}
		root = abs
	}

	matcher := gitignore.CompileIgnoreLines(cfg.DenyPatterns...)

	return &PathGuard{
		root:    root,
		matcher: matcher,
		enabled: true,
	}, nil
}

// CheckWritable validates a path for save operations: inside the guard
// root, not matching a deny pattern, and with a writable parent directory.
func (g *PathGuard) CheckWritable(path string) error {
	abs, err := g.check(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewError(domain.CodeFileNotFound, "directory does not exist: %s", dir)
		}
		return domain.WrapError(domain.CodePermissionDenied, err, "cannot access directory: %s", dir)
	}
	if !info.IsDir() {
		return domain.NewError(domain.CodeInvalidParameters, "not a directory: %s", dir)
	}

	return nil
}

// CheckReadable validates a path for fetch operations: inside the guard
// root, not matching a deny pattern, and existing on disk.
func (g *PathGuard) CheckReadable(path string) error {
	abs, err := g.check(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return domain.NewError(domain.CodeFileNotFound, "file not found: %s", path)
		}
		return domain.WrapError(domain.CodePermissionDenied, err, "cannot access file: %s", path)
	}

	return nil
}

func (g *PathGuard) check(path string) (string, error) {
	if path == "" {
		return "", domain.NewError(domain.CodeInvalidParameters, "file path must not be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domain.WrapError(domain.CodeInvalidParameters, err, "invalid path: %s", path)
	}

	if !g.enabled {
		return abs, nil
	}

	if g.root != "" {
		rel, err := filepath.Rel(g.root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", domain.NewError(domain.CodePermissionDenied,
				"path %s is outside the allowed root %s", path, g.root)
		}
	}

	if g.matcher != nil && g.matcher.MatchesPath(abs) {
		return "", domain.NewError(domain.CodePermissionDenied,
			"path %s is denied by guard policy", path)
	}

	return abs, nil
}

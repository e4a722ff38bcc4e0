package web

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	errPathLoadsDisabled = errors.New("path loads disabled: CATALOG_LOAD_DIR is not set")
	errPathOutsideDir    = errors.New("path is outside the load directory")
)

// resolveLoadPath maps a requested catalog path into dir. Relative paths are
// taken relative to dir. Symlinks are resolved before the containment check.
func resolveLoadPath(dir, path string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errPathLoadsDisabled
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	root = evalSymlinks(root)

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	target := evalSymlinks(filepath.Clean(path))

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", errPathOutsideDir
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errPathOutsideDir
	}
	return target, nil
}

// evalSymlinks resolves path, or its parent when path does not exist yet.
func evalSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if parent, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(parent, filepath.Base(path))
	}
	return path
}

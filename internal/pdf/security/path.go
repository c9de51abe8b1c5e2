// Package security confines user supplied paths to the working directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator resolves base document and export paths inside one directory
type PathValidator struct {
	root string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute configured directory
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve maps path onto the configured directory. Relative paths are taken
// from the directory; absolute paths must already lie inside it.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	clean := filepath.Clean(path)

	within, err := v.IsPathWithinDirectory(clean)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return clean, nil
}

// OutputPath resolves a file to be written, adding ext when name has none
func (v *PathValidator) OutputPath(name, ext string) (string, error) {
	if ext != "" && filepath.Ext(name) == "" {
		name += ext
	}
	resolved, err := v.Resolve(name)
	if err != nil {
		return "", err
	}
	if resolved == v.root {
		return "", fmt.Errorf("output path must name a file")
	}
	if info, err := os.Stat(resolved); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path is a directory: %s", resolved)
	}
	return resolved, nil
}

// IsPathWithinDirectory checks if an absolute path is within the configured
// directory, following symlinks in both
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	cleanPath := filepath.Clean(absPath)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}
	realDir := v.root
	if resolved, err := filepath.EvalSymlinks(v.root); err == nil {
		realDir = resolved
	}

	pathOk := within(cleanPath, v.root) || within(cleanPath, realDir)
	realPathOk := within(realPath, v.root) || within(realPath, realDir)
	return pathOk && realPathOk, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

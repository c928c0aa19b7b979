package scene

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Expand resolves scene arguments into file paths. An argument may be a
// file, a directory (searched recursively for files whose base name matches
// one of dirPatterns) or a doublestar glob such as scenes/**/*.yaml.
// Results keep argument order and are de-duplicated.
func Expand(fsys afero.Fs, args []string, dirPatterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		// Existing paths are literal even when they contain glob syntax
		info, err := fsys.Stat(arg)
		if err != nil {
			if !hasMeta(arg) {
				return nil, fmt.Errorf("failed to stat scene: %w", err)
			}
			matches, err := glob(fsys, arg)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no scene files match %s", arg)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		if !info.IsDir() {
			add(arg)
			continue
		}

		matches, err := walkDir(fsys, arg, dirPatterns)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// Dirs lists the directories Expand scans for args: every directory
// argument and the existing base of every glob, with all their
// subdirectories. File arguments are skipped.
func Dirs(fsys afero.Fs, args []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, arg := range args {
		root := arg
		if info, err := fsys.Stat(arg); err == nil {
			if !info.IsDir() {
				continue
			}
		} else if hasMeta(arg) {
			base, _ := doublestar.SplitPattern(cleanPattern(arg))
			root = filepath.FromSlash(base)
		} else {
			continue
		}

		if info, err := fsys.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if path = filepath.Clean(path); info.IsDir() && !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	return dirs, nil
}

// cleanPattern puts a glob in the form afero.Walk reports paths in
func cleanPattern(pattern string) string {
	return filepath.ToSlash(filepath.Clean(pattern))
}

func glob(fsys afero.Fs, pattern string) ([]string, error) {
	pattern = cleanPattern(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid scene pattern: %s", pattern)
	}

	base, _ := doublestar.SplitPattern(pattern)

	var matches []string
	err := afero.Walk(fsys, filepath.FromSlash(base), func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}

func walkDir(fsys afero.Fs, dir string, patterns []string) ([]string, error) {
	var matches []string
	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if matchAny(patterns, info.Name()) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(matches)
	return matches, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Copyright © 2025 The luavet authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// expandArgs expands command line file arguments.  An argument of the
// form "dir/..." is replaced by every .lua file under dir.  Files
// matching one of the exclude patterns (matched against both the base
// name and the slash-separated path) are skipped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}
	for _, arg := range args {
		if !strings.HasSuffix(arg, "...") {
			excluded, err := excludePath(arg, excludes)
			if err != nil {
				return nil, err
			}
			if !excluded {
				add(arg)
			}
			continue
		}
		root := strings.TrimSuffix(arg, "...")
		root = strings.TrimSuffix(root, string(filepath.Separator))
		if root == "" {
			root = "."
		}
		expanded, err := expandDir(root, excludes)
		if err != nil {
			return nil, err
		}
		for _, path := range expanded {
			add(path)
		}
	}
	return paths, nil
}

// expandDir walks root and returns all .lua files in sorted order.
func expandDir(root string, excludes []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		excluded, err := excludePath(path, excludes)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if excluded && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded {
			return nil
		}
		if filepath.Ext(path) == ".lua" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// excludePath reports whether path matches any exclude pattern.
// Patterns are tried against the base name, the full slash path, and
// each path element so that --exclude=vendor skips vendor trees.
func excludePath(path string, excludes []string) (bool, error) {
	slashed := filepath.ToSlash(path)
	for _, pattern := range excludes {
		ok, err := filepath.Match(pattern, filepath.Base(path))
		if err != nil {
			return false, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true, nil
		}
		for _, elem := range strings.Split(slashed, "/") {
			if ok, _ := filepath.Match(pattern, elem); ok {
				return true, nil
			}
		}
	}
	return false, nil
}

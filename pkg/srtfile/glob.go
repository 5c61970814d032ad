package srtfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ExpandGlobs turns file paths and glob patterns into a sorted, deduplicated
// list of files. A pattern that matches nothing is kept as a literal path so
// the caller reports it as not found. Directories matched by a wildcard are
// dropped.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			if match != pattern && isDir(match) {
				continue
			}
			add(match)
		}
	}

	slices.Sort(files)
	return files, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

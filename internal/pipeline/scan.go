package pipeline

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ListPDFs walks root and returns the PDF files to process, hidden entries
// skipped, sorted so the output row order is deterministic for a fixed
// directory.
func ListPDFs(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("input directory is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(d.Name()) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

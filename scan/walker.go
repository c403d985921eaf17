package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"find-repeats/config"
)

// FileWalker discovers the documents a scan should cover, filtering by the
// extension tables in config and skipping tooling directories.
type FileWalker struct {
	types map[string]bool
}

// NewFileWalker creates a walker for document types, plus code types when
// includeCode is set.
func NewFileWalker(includeCode bool) *FileWalker {
	return &FileWalker{types: config.BuildFileTypeMap(includeCode)}
}

// isCandidate checks if a path's extension is in our target types.
func (fw *FileWalker) isCandidate(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if fw.types[ext] {
		return true
	}

	// Compressed documents are dispatched on their inner extension.
	if ext == ".gz" {
		inner := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ext)))
		return fw.types[inner]
	}

	// Handle files without extensions (common prose carriers)
	if ext == "" {
		basename := strings.ToLower(filepath.Base(path))
		extensionless := []string{"readme", "license", "changelog", "notes"}
		for _, name := range extensionless {
			if basename == name || strings.HasPrefix(basename, name) {
				return true
			}
		}
	}

	return false
}

// Discover expands paths into the list of files to scan, in walk order.
// Files named explicitly are always included, whatever their extension;
// directories are walked with the skip table applied. An empty paths list
// means the current directory.
func (fw *FileWalker) Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip files we can't access
			}
			if d.IsDir() {
				if path != root && config.ShouldSkipDirectory(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if fw.isCandidate(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// Count counts the files Discover would return without collecting them.
func (fw *FileWalker) Count(paths []string) (int, error) {
	files, err := fw.Discover(paths)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

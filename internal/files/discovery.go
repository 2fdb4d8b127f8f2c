package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DiscoveredFile describes a CSV file found on disk for batch analysis.
type DiscoveredFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates CSV input files for the batch analyzer.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance rooted at basePath.
// Relative directories passed to its methods resolve against it.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindCSVFiles finds CSV files directly inside dir, sorted by name so
// batch runs are deterministic.
func (d *Discovery) FindCSVFiles(dir string) ([]DiscoveredFile, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []DiscoveredFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, DiscoveredFile{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return found, nil
}

// FindCSVFilesRecursive walks dir and all subdirectories for CSV files.
func (d *Discovery) FindCSVFilesRecursive(dir string) ([]DiscoveredFile, error) {
	fullPath := d.resolve(dir)

	var found []DiscoveredFile
	err := filepath.WalkDir(fullPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		found = append(found, DiscoveredFile{
			Path:    path,
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", fullPath, err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})
	return found, nil
}

// FindFilesByPattern finds files in dir matching a glob pattern.
func (d *Discovery) FindFilesByPattern(dir, pattern string) ([]DiscoveredFile, error) {
	searchPattern := filepath.Join(d.resolve(dir), pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var found []DiscoveredFile
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, DiscoveredFile{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return found, nil
}

// LatestFile returns the most recently modified file from a list.
func LatestFile(found []DiscoveredFile) (DiscoveredFile, bool) {
	if len(found) == 0 {
		return DiscoveredFile{}, false
	}

	latest := found[0]
	for _, file := range found[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

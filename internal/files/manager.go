package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tradelens/internal/config"
)

// Manager provides file management for the upload directory. All paths
// it touches stay inside the configured directory.
type Manager struct {
	dir string
}

// NewManager creates a file manager rooted at the upload directory.
func NewManager(cfg config.UploadConfig) *Manager {
	return &Manager{dir: cfg.Dir}
}

// Dir returns the upload directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// ValidateFilename rejects names that are empty, are not CSV files, or
// would escape the upload directory.
func (m *Manager) ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename is empty")
	}
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return fmt.Errorf("filename %q contains path separators", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("filename %q is not a .csv file", name)
	}
	return nil
}

// Save writes data under a timestamped variant of the original name so
// repeated uploads of the same file never collide. It returns the
// stored filename.
func (m *Manager) Save(name string, data []byte) (string, error) {
	if err := m.ValidateFilename(name); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	stored := fmt.Sprintf("%s_%s.csv", time.Now().Format("20060102_150405"), base)
	fullPath := filepath.Join(m.dir, stored)

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	slog.Info("Stored upload",
		slog.String("filename", stored),
		slog.Int("size_bytes", len(data)))

	return stored, nil
}

// FileInfo describes one stored upload.
type FileInfo struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// List returns the stored CSV files, newest first.
func (m *Manager) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var infos []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, FileInfo{
			Name:       entry.Name(),
			SizeBytes:  stat.Size(),
			UploadedAt: stat.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UploadedAt.After(infos[j].UploadedAt)
	})
	if infos == nil {
		infos = []FileInfo{}
	}
	return infos, nil
}

// Exists reports whether a stored file is present.
func (m *Manager) Exists(name string) bool {
	if err := m.ValidateFilename(name); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(m.dir, name))
	return err == nil
}

// Read returns the content of a stored file.
func (m *Manager) Read(name string) ([]byte, error) {
	if err := m.ValidateFilename(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Delete removes a stored file.
func (m *Manager) Delete(name string) error {
	if err := m.ValidateFilename(name); err != nil {
		return err
	}
	fullPath := filepath.Join(m.dir, name)

	slog.Info("Deleting upload", slog.String("filename", name))

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

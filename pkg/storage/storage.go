package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Storage writes export files below Dir. An empty Dir means the working
// directory.
type Storage struct {
	Dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// Path resolves name against the storage directory. Absolute names are
// returned unchanged.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// SaveFile writes content to name, creating parent directories as needed.
// It returns the resolved path.
func (s *Storage) SaveFile(name string, content []byte) (string, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return path, nil
}

func (s *Storage) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(name string) (*FileStats, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalScratchStore writes each session's current upload to one fixed file
// under dir. The file is overwritten by the next upload and is never read
// back as a durable copy.
type LocalScratchStore struct {
	dir string
}

func NewLocalScratchStore(dir string) (*LocalScratchStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	return &LocalScratchStore{dir: dir}, nil
}

func (s *LocalScratchStore) path(sessionID string) string {
	return filepath.Join(s.dir, filepath.Base(sessionID)+".pdf")
}

// Write replaces the session's scratch file with data and returns its path.
func (s *LocalScratchStore) Write(sessionID string, data []byte) (string, error) {
	target := s.path(sessionID)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to replace scratch file: %w", err)
	}
	return target, nil
}

// Remove deletes the session's scratch file. A missing file is not an error.
func (s *LocalScratchStore) Remove(sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Package storage provides the content store the testcase model reads and
// writes through. Handles are opaque names; the judge core never assumes a
// filesystem shape beyond this package.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Handle names one piece of owned content.
type Handle string

// Store reads and writes opaque content handles.
type Store interface {
	Read(h Handle) ([]byte, error)
	Write(h Handle, data []byte) error
	Delete(h Handle) error
}

// FsStore keeps each handle as a file inside one directory.
type FsStore struct {
	dir string
}

func NewFsStore(dir string) (*FsStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FsStore{dir: dir}, nil
}

func (s *FsStore) Dir() string { return s.dir }

func (s *FsStore) Read(h Handle) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, string(h)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", h, err)
	}
	return data, nil
}

func (s *FsStore) Write(h Handle, data []byte) error {
	if err := os.WriteFile(filepath.Join(s.dir, string(h)), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", h, err)
	}
	return nil
}

func (s *FsStore) Delete(h Handle) error {
	if err := os.Remove(filepath.Join(s.dir, string(h))); err != nil {
		return fmt.Errorf("failed to delete %s: %w", h, err)
	}
	return nil
}

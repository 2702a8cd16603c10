package migration

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Store reads and rewrites the migration CSV in place.
type Store struct {
	path string
}

const defaultFileMode os.FileMode = 0o644

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() ([]*Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening migration file: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading migration file '%s': %w", s.path, err)
	}
	return rows, nil
}

// Save replaces the file contents with the given rows. The file is written next to the
// original and renamed over it, so an interrupted save leaves the previous checkpoint intact.
func (s *Store) Save(rows []*Row) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary migration file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(s.mode()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting migration file permissions: %w", err)
	}
	if err := Write(tmp, rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing migration file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary migration file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing migration file '%s': %w", s.path, err)
	}
	return nil
}

// mode returns the permissions of the existing file, or defaultFileMode for a new one.
func (s *Store) mode() os.FileMode {
	info, err := os.Stat(s.path)
	if err != nil {
		return defaultFileMode
	}
	return info.Mode().Perm()
}

func Read(r io.Reader) ([]*Row, error) {
	rows := make([]*Row, 0)
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if len(row.ImportStatus) == 0 {
			row.ImportStatus = StatusPending
		}
	}
	return rows, nil
}

func Write(w io.Writer, rows []*Row) error {
	return gocsv.Marshal(&rows, w)
}

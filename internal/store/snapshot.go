package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Snapshot persists named JSON documents under a single data directory.
// Writes go to a temporary path first and are renamed over the target, so a
// crash mid-write never leaves a truncated file.
type Snapshot struct {
	dir string
}

func NewSnapshot(dir string) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Snapshot{dir: dir}, nil
}

func (s *Snapshot) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the named document into v. A missing file leaves v untouched
// and reports found=false. A malformed file degrades to the zero value
// rather than failing startup; the loss is logged.
func (s *Snapshot) Load(name string, v any) (found bool, err error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("store", name).Msg("malformed snapshot, falling back to empty state")
		return false, nil
	}
	return true, nil
}

// Save atomically rewrites the named document.
func (s *Snapshot) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Package cache persists per-event knowledge bases on disk so research
// for a given event never runs twice.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/raceatlas/scout-cli/internal/model"
)

// Key derives the deterministic, filesystem-safe cache key for an event
// display name: lowercased, with every run of non-alphanumeric characters
// collapsed to a single underscore.
func Key(eventName string) string {
	var b strings.Builder
	b.Grow(len(eventName))
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(eventName)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// Store reads and writes knowledge bases under a directory, one JSON
// document per event keyed by filename.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "cache: create dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the knowledge base for key. The second return value reports
// whether a cache entry exists; an existing but unreadable entry is an
// I/O error, not a miss.
func (s *Store) Load(key string) (model.KnowledgeBase, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, eris.Wrapf(err, "cache: read %s", key)
	}

	var kb model.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, false, eris.Wrapf(err, "cache: unmarshal %s", key)
	}
	return kb, true, nil
}

// Save persists a knowledge base under key. The write goes through a
// temp file and rename so a crash never leaves a truncated entry.
func (s *Store) Save(key string, kb model.KnowledgeBase) error {
	data, err := json.MarshalIndent(kb, "", "    ")
	if err != nil {
		return eris.Wrapf(err, "cache: marshal %s", key)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "cache: write %s", key)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return eris.Wrapf(err, "cache: rename %s", key)
	}
	return nil
}

// List returns the keys of all cached events, sorted by filename.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "cache: list %s", s.dir)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	return keys, nil
}

// Clear removes the entry for key. Clearing a missing key is not an error.
func (s *Store) Clear(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "cache: clear %s", key)
	}
	return nil
}

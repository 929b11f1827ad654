package fallback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads the static JSON files the seed tool exports alongside the
// database. The API serves these when the database is unreachable, so every
// file mirrors the shape of the corresponding endpoint.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Read decodes dir/name into v. name is a bare filename like
// "leaderboard.json".
func (s *Store) Read(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("reading fallback %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding fallback %s: %w", name, err)
	}
	return nil
}

// ReadPlate decodes the per-plate file under dir/plates. Plates come from
// URL parameters, so anything that could escape the plates directory is
// rejected.
func (s *Store) ReadPlate(plate string, v interface{}) error {
	if plate == "" || strings.ContainsAny(plate, "/\\.") {
		return fmt.Errorf("invalid plate %q", plate)
	}
	return s.Read(filepath.Join("plates", plate+".json"), v)
}

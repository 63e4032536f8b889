// Package kvstore implements the flat "key=value" line file format used for
// both the app-wide settings file and per-book caches, adapted from
// pixel-reader's key_value_file.{h,cpp}.
package kvstore

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Store is an in-memory key=value map backed by a file on disk. Writes are
// buffered in memory and only reach disk on Flush, gated by a dirty flag so
// an untouched store costs nothing to keep open.
type Store struct {
	path  string
	data  map[string]string
	dirty bool
	log   *zap.Logger
}

// Load reads path if it exists and returns a Store seeded with its
// contents. A missing file is not an error: it yields an empty store that
// will be created on first Flush.
func Load(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{path: path, data: make(map[string]string), log: log}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("unable to open key-value file, starting empty", zap.String("path", path), zap.Error(err))
		}
		return s
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		pos := strings.IndexByte(line, '=')
		if pos < 0 {
			continue
		}
		key := strings.TrimSpace(line[:pos])
		value := strings.TrimSpace(line[pos+1:])
		if key == "" {
			continue
		}
		s.data[key] = value // last duplicate wins
	}
	if err := scanner.Err(); err != nil {
		log.Warn("error reading key-value file, using partial contents", zap.String("path", path), zap.Error(err))
	}

	return s
}

// Get returns the trimmed string value for key, and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetOr returns key's value, or def if key is absent.
func (s *Store) GetOr(key, def string) string {
	if v, ok := s.data[key]; ok {
		return v
	}
	return def
}

// Set assigns key=value, marking the store dirty if the value changed.
func (s *Store) Set(key, value string) {
	if cur, ok := s.data[key]; ok && cur == value {
		return
	}
	s.data[key] = value
	s.dirty = true
}

// Dirty reports whether the store has unflushed changes.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Flush rewrites the backing file if the store is dirty. Unknown keys
// (anything Set never touched but was present on Load) are preserved
// because Load seeds s.data with every key found on disk.
func (s *Store) Flush() error {
	if !s.dirty {
		return nil
	}

	var buf bytes.Buffer
	for key, value := range s.data {
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(value)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		s.log.Warn("failed to flush key-value file", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.dirty = false
	return nil
}

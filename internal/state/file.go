package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a Store backed by a single JSON file: a map keyed by message
// identifier. The volume is a handful of invoices per month, so a flat file
// read at startup and rewritten atomically on every mark is plenty.
type FileStore struct {
	path    string
	records map[string]Record
}

// NewFileStore opens (or initializes) the processed-set file.
// A missing file is an empty set, not an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, records: make(map[string]Record)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("corrupt state file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// IsProcessed reports whether the message has a terminal success record.
func (s *FileStore) IsProcessed(messageID string) (bool, error) {
	rec, ok := s.records[messageID]
	return ok && rec.Outcome == OutcomeSuccess, nil
}

// Get returns the record for the message, if any.
func (s *FileStore) Get(messageID string) (Record, bool, error) {
	rec, ok := s.records[messageID]
	return rec, ok, nil
}

// MarkProcessed persists the record. The file is rewritten through a temp
// file and rename, so a kill mid-write leaves the previous state intact.
func (s *FileStore) MarkProcessed(rec Record) error {
	if rec.MessageID == "" {
		return fmt.Errorf("record has no message id")
	}
	s.records[rec.MessageID] = rec
	return s.flush()
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "processed-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

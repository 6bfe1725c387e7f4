package state

// MemoryStore is an in-memory Store for tests. It implements the same
// contract as FileStore without touching the filesystem.
type MemoryStore struct {
	records map[string]Record

	// MarkErr, when set, is returned by MarkProcessed to simulate a
	// persistence failure.
	MarkErr error
}

// NewMemoryStore creates an empty in-memory processed-set.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// IsProcessed reports whether the message has a terminal success record.
func (s *MemoryStore) IsProcessed(messageID string) (bool, error) {
	rec, ok := s.records[messageID]
	return ok && rec.Outcome == OutcomeSuccess, nil
}

// Get returns the record for the message, if any.
func (s *MemoryStore) Get(messageID string) (Record, bool, error) {
	rec, ok := s.records[messageID]
	return rec, ok, nil
}

// MarkProcessed stores the record.
func (s *MemoryStore) MarkProcessed(rec Record) error {
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.records[rec.MessageID] = rec
	return nil
}

// Len returns the number of records held.
func (s *MemoryStore) Len() int {
	return len(s.records)
}

// Package state tracks which invoice messages have already been processed.
//
// The processed-set is what makes repeated runs over the same search window
// idempotent: success records are terminal, failure records are retry-eligible
// and get overwritten by the next attempt. The default implementation is a
// JSON flat file rewritten atomically; tests substitute MemoryStore through
// the Store interface.
package state

package state

import "time"

// Outcome classifies how processing a message ended.
type Outcome string

const (
	// OutcomeSuccess marks a message as fully handled. Terminal: the message
	// is never reprocessed.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure marks a failed attempt. The message stays eligible for
	// retry on a later run while it remains inside the search window.
	OutcomeFailure Outcome = "failure"
)

// Record is the durable per-message processing record.
type Record struct {
	// MessageID is the mail message identifier this record belongs to.
	MessageID string `json:"message_id"`

	// Outcome is success or failure.
	Outcome Outcome `json:"outcome"`

	// ProcessedAt is when the attempt finished.
	ProcessedAt time.Time `json:"processed_at"`

	// Barcode is the extracted payload, empty when none was found.
	Barcode string `json:"barcode,omitempty"`

	// ArchivedAs is the file name the invoice was archived under.
	ArchivedAs string `json:"archived_as,omitempty"`

	// Reason describes why a failed attempt failed.
	Reason string `json:"reason,omitempty"`
}

// Store is the processed-set contract. Implementations must survive process
// restarts (the pipeline runs once per trigger period over months) and must be
// read-before-write consistent within a single run. There is exactly one
// runner at a time, so no locking is required of implementations.
type Store interface {
	// IsProcessed reports whether the message has a terminal success record.
	// Failed records do not count: they stay retry-eligible.
	IsProcessed(messageID string) (bool, error)

	// Get returns the record for the message, if any.
	Get(messageID string) (Record, bool, error)

	// MarkProcessed persists the record, replacing any previous record for
	// the same message.
	MarkProcessed(rec Record) error
}

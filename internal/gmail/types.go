package gmail

import (
	"errors"
	"time"
)

// ErrNoPDFAttachment indicates that a matched message carries no PDF part.
// This is not a transport failure: the attachment set of a sent message never
// changes, so the candidate is skipped instead of retried.
var ErrNoPDFAttachment = errors.New("message has no PDF attachment")

// InvoiceCandidate is a message matching the sender/time filter that has not
// yet been checked against the processed-set. Immutable once built.
type InvoiceCandidate struct {
	// MessageID is the Gmail message identifier, unique per mail account.
	MessageID string

	// From is the sender address parsed from the From header.
	From string

	// Subject is the message subject.
	Subject string

	// Received is the internal date of the message.
	Received time.Time
}

// AttachmentInfo represents an attachment's metadata.
type AttachmentInfo struct {
	MessageID    string
	PartID       string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
}

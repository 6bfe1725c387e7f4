package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Status is the final classification of one candidate within a run.
type Status string

const (
	// StatusProcessed means the full pipeline ran: archived and recorded.
	StatusProcessed Status = "processed"

	// StatusAlreadyDone means the processed-set already holds a success
	// record; nothing was fetched, uploaded or notified for it.
	StatusAlreadyDone Status = "already_done"

	// StatusNoAttachment means the message carries no PDF. Skipped, not
	// failed: absence of an attachment will not change on retry.
	StatusNoAttachment Status = "no_attachment"

	// StatusFailed means a step failed; the reason says which.
	StatusFailed Status = "failed"
)

// CandidateOutcome is the per-candidate result aggregated into the run report.
type CandidateOutcome struct {
	MessageID  string
	Subject    string
	Received   time.Time
	Status     Status
	Barcode    string
	ArchivedAs string
	Link       string
	Reason     string
}

// RunReport aggregates one pipeline run. It lives only until the summary
// notification is sent; nothing persists it.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []CandidateOutcome

	// FatalReason is set when the run could not evaluate candidates at all
	// (credentials or search failed).
	FatalReason string
}

// NewRunReport starts an empty report for a new run.
func NewRunReport() *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Add appends a candidate outcome.
func (r *RunReport) Add(o CandidateOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Counts returns the outcome totals.
func (r *RunReport) Counts() (processed, alreadyDone, noAttachment, failed int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusProcessed:
			processed++
		case StatusAlreadyDone:
			alreadyDone++
		case StatusNoAttachment:
			noAttachment++
		case StatusFailed:
			failed++
		}
	}
	return
}

// Package pipeline orchestrates one unattended invoice-processing run.
//
// A run finds messages from the configured sender inside the trailing search
// window, fetches each message's PDF attachment, renders it to page images,
// scans for a payment barcode, archives the PDF to Drive, records the outcome
// in the durable processed-set and finally mails a summary to the account
// owner. Candidates with a terminal success record are skipped, which makes
// repeated runs over the same window idempotent.
//
// Error handling is per candidate: a transient failure (fetch, upload) leaves
// the candidate unrecorded so the next run retries it, a structural failure
// (unreadable document) is recorded so the summary shows it, and a missing
// attachment is a skip rather than a failure. Only a failure of candidate
// discovery itself aborts the run.
package pipeline

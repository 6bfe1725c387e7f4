package pipeline

import (
	"fmt"
	"strings"
)

// Subject returns the subject line of the summary notification.
func (r *RunReport) Subject() string {
	if r.FatalReason != "" {
		return "Invoice processing FAILED"
	}
	processed, _, _, failed := r.Counts()
	if failed > 0 {
		return fmt.Sprintf("Invoice processing: %d processed, %d failed", processed, failed)
	}
	return fmt.Sprintf("Invoice processing: %d processed", processed)
}

// Body renders the plain-text summary sent to the account owner after every
// run. Exactly one notification is produced per run; fatal runs get a
// degraded body instead of none.
func (r *RunReport) Body() string {
	var b strings.Builder

	if r.FatalReason != "" {
		b.WriteString("The invoice processing run did not complete.\n\n")
		b.WriteString("Reason: ")
		b.WriteString(r.FatalReason)
		b.WriteString("\n\nNo messages were evaluated. The next scheduled run will retry.\n")
		return b.String()
	}

	processed, alreadyDone, noAttachment, failed := r.Counts()
	fmt.Fprintf(&b, "Invoice processing summary\n\n")
	fmt.Fprintf(&b, "Processed: %d, Already done: %d, Skipped (no PDF): %d, Failed: %d\n",
		processed, alreadyDone, noAttachment, failed)

	for _, o := range r.Outcomes {
		if o.Status == StatusAlreadyDone {
			continue
		}
		fmt.Fprintf(&b, "\n%s  %s\n", o.Received.Format("2006-01-02"), o.Subject)
		switch o.Status {
		case StatusProcessed:
			barcode := o.Barcode
			if barcode == "" {
				barcode = "no barcode found"
			}
			fmt.Fprintf(&b, "  barcode: %s\n", barcode)
			fmt.Fprintf(&b, "  file: %s\n", o.ArchivedAs)
			if o.Link != "" {
				fmt.Fprintf(&b, "  link: %s\n", o.Link)
			}
		case StatusNoAttachment:
			b.WriteString("  skipped: no PDF attachment\n")
		case StatusFailed:
			fmt.Fprintf(&b, "  FAILED: %s\n", o.Reason)
		}
	}

	return b.String()
}

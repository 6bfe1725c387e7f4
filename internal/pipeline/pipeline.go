package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/mpavlovic/racuni/internal/barcode"
	"github.com/mpavlovic/racuni/internal/drive"
	"github.com/mpavlovic/racuni/internal/gmail"
	"github.com/mpavlovic/racuni/internal/instrumentation"
	"github.com/mpavlovic/racuni/internal/logging"
	"github.com/mpavlovic/racuni/internal/pdf"
	"github.com/mpavlovic/racuni/internal/state"
)

// MailSource is the mail surface the pipeline needs: candidate discovery,
// attachment fetch and the summary notification. *gmail.Client implements it.
type MailSource interface {
	FindCandidates(ctx context.Context, sender string, sinceDays int) ([]gmail.InvoiceCandidate, error)
	FetchPDF(ctx context.Context, candidate gmail.InvoiceCandidate) (string, []byte, error)
	SendSelf(ctx context.Context, subject, body string) error
}

// Archiver is the destination surface. *drive.Client implements it.
type Archiver interface {
	EnsureFolder(ctx context.Context, name string) (string, error)
	FileExists(ctx context.Context, folderID, name string) (bool, error)
	UploadPDF(ctx context.Context, folderID, name string, content []byte) (*drive.FileInfo, error)
}

// Renderer turns a PDF document into page images. *pdf.Renderer implements it.
type Renderer interface {
	Render(doc []byte) ([]pdf.Page, error)
}

// Scanner extracts barcodes from a page image. *barcode.Scanner implements it.
type Scanner interface {
	Scan(img image.Image, pageIndex int) ([]barcode.Result, error)
}

// Options is the per-run configuration of the pipeline.
type Options struct {
	// Sender is the invoice sender address candidates must match.
	Sender string

	// SinceDays is the trailing search window.
	SinceDays int

	// DriveFolder is the archive folder name.
	DriveFolder string

	// StepTimeout bounds each network call attempt.
	StepTimeout time.Duration
}

// Deps collects the pipeline's collaborators. All fields are required except
// Metrics, which may be nil.
type Deps struct {
	Mail    MailSource
	Archive Archiver
	Render  Renderer
	Scan    Scanner
	Store   state.Store
	Metrics *instrumentation.Recorder
	Logger  *slog.Logger
}

// Pipeline drives one unattended processing run: find candidates, fetch,
// render, scan, archive, record, notify.
type Pipeline struct {
	deps Deps
	opts Options
}

// New builds a pipeline from its collaborators.
func New(deps Deps, opts Options) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{deps: deps, opts: opts}
}

// Run executes one full pipeline run. The returned report is never nil; the
// error is non-nil only for fatal failures (candidate discovery itself broke),
// in which case a degraded notification has already been attempted.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := NewRunReport()
	log := p.deps.Logger.With(logging.Run(report.RunID))
	start := time.Now()

	log.Info("starting run",
		logging.Domain(p.opts.Sender),
		slog.Int("since_days", p.opts.SinceDays))

	candidates, err := withRetry(ctx, p.opts.StepTimeout, func(c context.Context) ([]gmail.InvoiceCandidate, error) {
		return p.deps.Mail.FindCandidates(c, p.opts.Sender, p.opts.SinceDays)
	})
	if err != nil {
		report.FatalReason = fmt.Sprintf("searching for candidates: %v", err)
		report.FinishedAt = time.Now()
		log.Error("candidate search failed", logging.Err(err))
		p.notify(ctx, report, log)
		p.deps.Metrics.RecordRun(ctx, time.Since(start), true)
		return report, fmt.Errorf("searching for candidates: %w", err)
	}
	log.Info("candidates found", slog.Int("count", len(candidates)))

	// The folder lookup is deferred until the first candidate that actually
	// needs an upload, so runs with nothing to do never touch Drive.
	var folderID string

	for _, cand := range candidates {
		outcome := p.processCandidate(ctx, cand, &folderID, log)
		report.Add(outcome)
		p.deps.Metrics.RecordCandidate(ctx, string(outcome.Status))
	}

	report.FinishedAt = time.Now()
	processed, alreadyDone, noAttachment, failed := report.Counts()
	log.Info("run finished",
		slog.Int("processed", processed),
		slog.Int("already_done", alreadyDone),
		slog.Int("no_attachment", noAttachment),
		slog.Int("failed", failed))

	p.notify(ctx, report, log)
	p.deps.Metrics.RecordRun(ctx, time.Since(start), false)
	return report, nil
}

type fetched struct {
	filename string
	doc      []byte
}

func (p *Pipeline) processCandidate(ctx context.Context, cand gmail.InvoiceCandidate, folderID *string, log *slog.Logger) CandidateOutcome {
	out := CandidateOutcome{
		MessageID: cand.MessageID,
		Subject:   cand.Subject,
		Received:  cand.Received,
	}
	clog := log.With(logging.MessageID(cand.MessageID))

	done, err := p.deps.Store.IsProcessed(cand.MessageID)
	if err != nil {
		return p.failed(out, clog, fmt.Errorf("reading processed-set: %w", err))
	}
	if done {
		out.Status = StatusAlreadyDone
		if rec, ok, _ := p.deps.Store.Get(cand.MessageID); ok {
			out.Barcode = rec.Barcode
			out.ArchivedAs = rec.ArchivedAs
		}
		clog.Info("already processed", logging.Status(logging.StatusSkipped))
		return out
	}

	f, err := withRetry(ctx, p.opts.StepTimeout, func(c context.Context) (fetched, error) {
		name, doc, err := p.deps.Mail.FetchPDF(c, cand)
		if errors.Is(err, gmail.ErrNoPDFAttachment) {
			return fetched{}, backoff.Permanent(err)
		}
		return fetched{filename: name, doc: doc}, err
	})
	if errors.Is(err, gmail.ErrNoPDFAttachment) {
		// Not a failure and not recorded: the candidate simply isn't an
		// invoice delivery, and re-checking it next run is cheap.
		out.Status = StatusNoAttachment
		clog.Info("no PDF attachment", logging.Status(logging.StatusSkipped))
		return out
	}
	if err != nil {
		// Transport failure. Left unmarked so the next run retries it.
		return p.failed(out, clog, fmt.Errorf("fetching attachment: %w", err))
	}
	clog.Debug("attachment fetched", logging.File(f.filename), slog.Int("bytes", len(f.doc)))

	pages, err := p.deps.Render.Render(f.doc)
	if err != nil {
		// A document that does not render today will not render tomorrow.
		// Recorded as a failure so the summary shows it, but failure records
		// stay retry-eligible in case the store policy changes the window.
		p.record(clog, state.Record{
			MessageID:   cand.MessageID,
			Outcome:     state.OutcomeFailure,
			ProcessedAt: time.Now(),
			Reason:      fmt.Sprintf("rendering document: %v", err),
		})
		return p.failed(out, clog, fmt.Errorf("rendering document: %w", err))
	}

	out.Barcode = p.scanPages(pages, clog)

	name := archiveFileName(p.opts.Sender, cand)

	if *folderID == "" {
		id, err := withRetry(ctx, p.opts.StepTimeout, func(c context.Context) (string, error) {
			return p.deps.Archive.EnsureFolder(c, p.opts.DriveFolder)
		})
		if err != nil {
			return p.failed(out, clog, fmt.Errorf("resolving archive folder: %w", err))
		}
		*folderID = id
	}

	exists, err := withRetry(ctx, p.opts.StepTimeout, func(c context.Context) (bool, error) {
		return p.deps.Archive.FileExists(c, *folderID, name)
	})
	if err != nil {
		return p.failed(out, clog, fmt.Errorf("checking archive: %w", err))
	}

	if exists {
		// A previous run uploaded but died before recording. Recording now
		// closes the gap without duplicating the file.
		clog.Info("file already archived", logging.File(name))
	} else {
		info, err := withRetry(ctx, p.opts.StepTimeout, func(c context.Context) (*drive.FileInfo, error) {
			return p.deps.Archive.UploadPDF(c, *folderID, name, f.doc)
		})
		if err != nil {
			return p.failed(out, clog, fmt.Errorf("uploading to archive: %w", err))
		}
		out.Link = info.WebViewLink
	}

	rec := state.Record{
		MessageID:   cand.MessageID,
		Outcome:     state.OutcomeSuccess,
		ProcessedAt: time.Now(),
		Barcode:     out.Barcode,
		ArchivedAs:  name,
	}
	if err := p.deps.Store.MarkProcessed(rec); err != nil {
		// The file is archived but the record did not stick, so the next run
		// will retry and hit the FileExists path above.
		return p.failed(out, clog, fmt.Errorf("recording result: %w", err))
	}

	out.Status = StatusProcessed
	out.ArchivedAs = name
	clog.Info("candidate processed",
		logging.File(name),
		logging.Status(logging.StatusSuccess),
		slog.Bool("barcode_found", out.Barcode != ""))
	return out
}

// scanPages returns the payload of the first barcode found, scanning pages in
// order. Finding nothing is a normal outcome, not an error.
func (p *Pipeline) scanPages(pages []pdf.Page, log *slog.Logger) string {
	for _, page := range pages {
		results, err := p.deps.Scan.Scan(page.Image, page.Index)
		if err != nil {
			log.Warn("scanning page failed", slog.Int("page", page.Index), logging.Err(err))
			continue
		}
		if len(results) > 0 {
			log.Debug("barcode found",
				slog.Int("page", page.Index),
				slog.String("symbology", results[0].Symbology))
			return results[0].Payload
		}
	}
	log.Info("no barcode found in document")
	return ""
}

func (p *Pipeline) failed(out CandidateOutcome, log *slog.Logger, err error) CandidateOutcome {
	out.Status = StatusFailed
	out.Reason = err.Error()
	log.Error("candidate failed", logging.Status(logging.StatusError), logging.Err(err))
	return out
}

// record persists a store record where failure to persist is itself only worth
// a log line (the candidate is already being reported as failed).
func (p *Pipeline) record(log *slog.Logger, rec state.Record) {
	if err := p.deps.Store.MarkProcessed(rec); err != nil {
		log.Warn("recording failure outcome", logging.Err(err))
	}
}

// notify sends the run summary to the account owner. Notification failures are
// logged and swallowed: the summary is a convenience, not part of the result.
func (p *Pipeline) notify(ctx context.Context, report *RunReport, log *slog.Logger) {
	subject, body := report.Subject(), report.Body()
	_, err := withRetry(ctx, p.opts.StepTimeout, func(c context.Context) (struct{}, error) {
		return struct{}{}, p.deps.Mail.SendSelf(c, subject, body)
	})
	if err != nil {
		log.Error("sending summary notification failed", logging.Err(err))
		return
	}
	log.Info("summary notification sent")
}

// archiveFileName builds the deterministic archive name for a candidate:
// the sender's local part, the received date and the message id. Deterministic
// so that an interrupted run can detect its own partial upload.
func archiveFileName(sender string, cand gmail.InvoiceCandidate) string {
	local := sender
	if at := strings.Index(sender, "@"); at > 0 {
		local = sender[:at]
	}
	return fmt.Sprintf("%s_%s_%s.pdf",
		gmail.SanitizeFilename(local),
		cand.Received.Format("2006-01-02"),
		gmail.SanitizeFilename(cand.MessageID))
}

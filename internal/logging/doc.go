// Package logging provides slog helpers for consistent structured logging.
//
// It defines the canonical attribute keys used across the pipeline (run_id,
// message_id, file, status, error) together with small constructor functions
// so call sites stay short and attribute names never drift.
//
// Email addresses are never logged verbatim; use AnonymizeEmail or Domain to
// keep PII out of the logs while preserving correlation.
package logging

// Package drive archives invoice documents into a Google Drive folder.
//
// The archive contract is effectively-once: EnsureFolder is an idempotent
// create-if-absent, and FileExists lets the caller detect an already archived
// invoice by its deterministic file name before uploading, independently of
// the processed-set. Uploads use the drive.file scope, so the tool only ever
// sees files it created itself.
package drive

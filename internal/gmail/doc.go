// Package gmail provides the mail-side operations of the invoice pipeline.
//
// It covers three concerns against the Gmail API:
//   - Candidate search: messages from the configured sender inside the
//     trailing window, returned oldest first. The search query narrows the
//     result set; the From header of each hit is re-verified locally.
//   - Attachment fetch: the first PDF part of a candidate message, decoded
//     from the API's base64url wire format.
//   - Notification: a plain-text summary mail the account sends to itself.
//
// The client is built on an OAuth2-authenticated *http.Client supplied by the
// google package; it holds no credential state of its own.
package gmail

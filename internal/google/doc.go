// Package google handles OAuth2 credentials for the Gmail and Drive APIs.
//
// The token pair (access + refresh token, expiry, granted scopes) is persisted
// as a JSON file with owner-only permissions. The file is a secret: it must
// live outside version-controlled storage.
//
// Credentials wraps an oauth2.TokenSource so expired access tokens are
// refreshed transparently during API calls, but persisting the refreshed
// material is an explicit caller action (Persist), and Refreshed exposes
// whether a refresh happened. Callers that only read APIs never need to care;
// the pipeline persists once at the end of a run.
//
// The consent flow (AuthURL + Exchange) runs once, interactively, through the
// auth command; everything after that is unattended.
package google

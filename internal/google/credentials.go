package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Credentials supplies authenticated HTTP clients for the Google APIs and
// makes token refresh an observable operation: after API calls, Refreshed
// reports whether the access token changed and Persist writes the updated
// material back to the store. Persisting is an explicit caller action so the
// store is never mutated behind the caller's back.
type Credentials struct {
	conf    *oauth2.Config
	store   *TokenStore
	initial *oauth2.Token
	source  oauth2.TokenSource
}

// NewCredentials loads the persisted token and builds a refreshing token
// source for it. Returns ErrNoToken (wrapped) when no refresh material exists.
func NewCredentials(ctx context.Context, conf *oauth2.Config, store *TokenStore) (*Credentials, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Credentials{
		conf:    conf,
		store:   store,
		initial: tok,
		source:  conf.TokenSource(ctx, tok),
	}, nil
}

// Token returns a valid access token, refreshing it against the remote token
// endpoint when the cached one has expired. Safe to call repeatedly.
func (c *Credentials) Token() (*oauth2.Token, error) {
	tok, err := c.source.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh rejected: %w", err)
	}
	return tok, nil
}

// HTTPClient returns an HTTP client that injects the access token and
// refreshes it transparently.
func (c *Credentials) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, c.source)
}

// Refreshed reports whether the current token differs from the one loaded at
// startup, i.e. whether a network refresh has happened.
func (c *Credentials) Refreshed() (bool, error) {
	tok, err := c.source.Token()
	if err != nil {
		return false, err
	}
	return tok.AccessToken != c.initial.AccessToken, nil
}

// Persist writes the current token back to the store when a refresh has
// happened. Returns whether a write occurred.
func (c *Credentials) Persist() (bool, error) {
	refreshed, err := c.Refreshed()
	if err != nil {
		return false, err
	}
	if !refreshed {
		return false, nil
	}

	tok, err := c.source.Token()
	if err != nil {
		return false, err
	}
	// Refresh responses may omit the refresh token; keep the original.
	if tok.RefreshToken == "" {
		tok.RefreshToken = c.initial.RefreshToken
	}
	if err := c.store.Save(tok); err != nil {
		return false, err
	}
	return true, nil
}

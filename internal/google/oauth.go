package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes are the Google OAuth scopes the pipeline needs:
// read invoice mail, send the summary notification, and write
// only files the tool itself created into Drive.
var Scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/drive.file",
}

// OOB is the out-of-band redirect for installed applications without
// a local callback server.
const OOB = "urn:ietf:wg:oauth:2.0:oob"

// OAuthConfig returns the OAuth2 configuration for the Gmail and Drive services.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       Scopes,
	}
}

// AuthURL returns the consent URL the owner has to visit once to authorize
// the configured OAuth client.
func AuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token pair and persists it
// through the given store.
func Exchange(ctx context.Context, conf *oauth2.Config, store *TokenStore, authCode string) error {
	tok, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if err := store.Save(tok); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoToken indicates that no usable refresh material exists on disk.
// The owner has to run the auth command once before the pipeline can run.
var ErrNoToken = errors.New("no valid Google OAuth token found")

// storedToken is the on-disk token record. It is a secret and must never
// end up in version control; the store writes it with mode 0600.
type storedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes"`
}

// TokenStore persists an OAuth token pair as a JSON file.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *TokenStore) Path() string {
	return s.path
}

// HasToken reports whether token material exists on disk.
func (s *TokenStore) HasToken() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted token. Returns ErrNoToken when the file is absent.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.path, err)
	}

	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", s.path, err)
	}
	if st.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token file %s has no refresh token", ErrNoToken, s.path)
	}

	return &oauth2.Token{
		AccessToken:  st.AccessToken,
		RefreshToken: st.RefreshToken,
		TokenType:    st.TokenType,
		Expiry:       st.Expiry,
	}, nil
}

// Save writes the token to disk, creating the parent directory if needed.
// The file is written with owner-only permissions.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	st := storedToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Scopes:       Scopes,
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", s.path, err)
	}
	return nil
}

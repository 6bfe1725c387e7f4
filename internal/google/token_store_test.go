package google

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path)

	if store.HasToken() {
		t.Fatal("expected no token before save")
	}

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := &oauth2.Token{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}
	if err := store.Save(tok); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if !store.HasToken() {
		t.Fatal("expected token after save")
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.AccessToken != tok.AccessToken {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, tok.AccessToken)
	}
	if got.RefreshToken != tok.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, tok.RefreshToken)
	}
	if !got.Expiry.Equal(expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, expiry)
	}
}

func TestTokenStoreFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "sub", "token.json")
	store := NewTokenStore(path)
	if err := store.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %o, want 0600", perm)
	}
}

func TestTokenStoreMissingFile(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nope.json"))
	_, err := store.Load()
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("Load() error = %v, want ErrNoToken", err)
	}
}

func TestTokenStoreRejectsMissingRefreshToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"access_token":"a"}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewTokenStore(path).Load()
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("Load() error = %v, want ErrNoToken", err)
	}
}

func TestCredentialsNotRefreshedInitially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path)
	tok := &oauth2.Token{
		AccessToken:  "still-valid",
		RefreshToken: "refresh-xyz",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := store.Save(tok); err != nil {
		t.Fatal(err)
	}

	conf := OAuthConfig("client-id", "client-secret")
	creds, err := NewCredentials(context.Background(), conf, store)
	if err != nil {
		t.Fatalf("NewCredentials() error: %v", err)
	}

	// The cached token is still valid, so no network refresh happens.
	refreshed, err := creds.Refreshed()
	if err != nil {
		t.Fatalf("Refreshed() error: %v", err)
	}
	if refreshed {
		t.Error("Refreshed() = true for a valid cached token")
	}

	wrote, err := creds.Persist()
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}
	if wrote {
		t.Error("Persist() wrote without a refresh")
	}
}

func TestCredentialsNoToken(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "missing.json"))
	conf := OAuthConfig("client-id", "client-secret")

	_, err := NewCredentials(context.Background(), conf, store)
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("NewCredentials() error = %v, want ErrNoToken", err)
	}
}

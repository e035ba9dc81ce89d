package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStores(t *testing.T) {
	drivers := []string{DriverFile, DriverSQLite, DriverMemory}

	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "credentials")
			s, err := New(driver, path)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			_, ok, err := s.Get("42")
			require.NoError(t, err)
			assert.False(t, ok)

			cred := Credential{AccessToken: "a", RefreshToken: "r", ExpiryDate: 1700000000000}
			require.NoError(t, s.Put("42", cred))

			got, ok, err := s.Get("42")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, cred, got)

			cred.AccessToken = "b"
			require.NoError(t, s.Put("42", cred))
			got, _, err = s.Get("42")
			require.NoError(t, err)
			assert.Equal(t, "b", got.AccessToken)

			require.NoError(t, s.Delete("42"))
			_, ok, err = s.Get("42")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New("redis", "x")
	assert.ErrorContains(t, err, "unknown credential store driver")
}

func TestFileStore_RewritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Put("1", Credential{AccessToken: "one"}))
	require.NoError(t, s.Put("2", Credential{AccessToken: "two"}))
	require.NoError(t, s.Delete("1"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]Credential
	require.NoError(t, json.Unmarshal(b, &onDisk))
	assert.Equal(t, map[string]Credential{"2": {AccessToken: "two"}}, onDisk)
	assert.Contains(t, string(b), "\n  \"2\": {")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok, _ := reopened.Get("1")
	assert.False(t, ok)
	got, ok, _ := reopened.Get("2")
	assert.True(t, ok)
	assert.Equal(t, "two", got.AccessToken)
}

func TestFileStore_LoadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{
  "123456": {
    "access_token": "ya29.a0",
    "refresh_token": "1//0g",
    "scope": "https://www.googleapis.com/auth/calendar",
    "token_type": "Bearer",
    "expiry_date": 1731300000000
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	cred, ok, err := s.Get("123456")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1//0g", cred.RefreshToken)
	assert.Equal(t, time.UnixMilli(1731300000000), cred.Token().Expiry)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.ErrorContains(t, err, "decode credentials")
}

func TestSQLiteStore_ImportsLegacyFileOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.json"),
		[]byte(`{"7":{"access_token":"legacy"}}`), 0o600))

	s, err := NewSQLiteStore(filepath.Join(dir, "credentials.db"))
	require.NoError(t, err)

	cred, ok, err := s.Get("7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "legacy", cred.AccessToken)

	require.NoError(t, s.Delete("7"))
	require.NoError(t, s.Put("8", Credential{AccessToken: "fresh"}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(filepath.Join(dir, "credentials.db"))
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err = reopened.Get("7")
	require.NoError(t, err)
	assert.False(t, ok, "legacy entries must not be re-imported into a populated table")
}

func TestCredentialFromToken(t *testing.T) {
	expiry := time.UnixMilli(1731300000000)
	tok := (&oauth2.Token{
		AccessToken:  "a",
		RefreshToken: "r",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}).WithExtra(map[string]interface{}{
		"scope":    "https://www.googleapis.com/auth/calendar",
		"id_token": "jwt",
	})

	cred := FromToken(tok)
	assert.Equal(t, Credential{
		AccessToken:  "a",
		RefreshToken: "r",
		Scope:        "https://www.googleapis.com/auth/calendar",
		TokenType:    "Bearer",
		IDToken:      "jwt",
		ExpiryDate:   1731300000000,
	}, cred)

	back := cred.Token()
	assert.Equal(t, "r", back.RefreshToken)
	assert.True(t, back.Expiry.Equal(expiry))
}

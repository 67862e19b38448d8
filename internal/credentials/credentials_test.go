package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyencaoquydieu/TelegramClient/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "telegram_credentials.json")

	creds := []credentials.Credential{
		{APIID: 123456, APIHash: "aaaa1111bbbb2222", Phone: "+84111111111"},
		{APIID: 654321, APIHash: "cccc3333dddd4444", Phone: "+84972292961"},
	}

	require.NoError(t, credentials.Save(path, creds))

	loaded, err := credentials.Load(path)
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)
}

func TestCredentials_LoadMissingFile(t *testing.T) {
	_, err := credentials.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestCredentials_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := credentials.Load(path)
	assert.Error(t, err)
}

func TestCredentials_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.json")

	require.NoError(t, credentials.Save(path, []credentials.Credential{
		{APIID: 1, APIHash: "h", Phone: "+10000000000"},
	}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credential is one account record in the credentials file. The file is an
// ordered JSON array written by whatever front end manages accounts; the
// bridge only reads it at startup.
type Credential struct {
	APIID   int    `json:"api_id"`
	APIHash string `json:"api_hash"`
	Phone   string `json:"phone"`
}

func Load(path string) ([]Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	var creds []Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	return creds, nil
}

// Save writes the list atomically so a crash mid-write cannot corrupt the
// file the next startup reads.
func Save(path string, creds []Credential) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

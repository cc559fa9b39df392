package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Credentials is what the vault persists between runs: the token pair plus
// the profile returned at login, so the UI can render without a round trip.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Vault stores credentials in a JSON file readable only by the owner.
type Vault struct {
	mu   sync.RWMutex
	path string
}

func NewVault(path string) *Vault {
	return &Vault{path: path}
}

// Load reads the stored credentials. A missing file is not an error; it
// returns empty credentials so startup can proceed unauthenticated.
func (v *Vault) Load() (Credentials, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	raw, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("failed to read vault: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		// A corrupt vault is treated as empty rather than blocking login.
		return Credentials{}, nil
	}
	return creds, nil
}

// Save writes credentials with 0600 permissions, creating parent
// directories as needed. The write goes through a temp file and rename so
// a crash never leaves a half-written vault.
func (v *Vault) Save(creds Credentials) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write vault: %w", err)
	}
	if err := os.Rename(tmp, v.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace vault: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. Clearing an already-empty vault
// is not an error.
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.Remove(v.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear vault: %w", err)
	}
	return nil
}

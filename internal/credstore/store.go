// Package credstore is the client-side credential store: the user's own API
// keys and provider preference, kept in a small JSON file under the home
// directory. Keys stored here are used for direct provider calls and are
// never transmitted to the berea server.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/berea-app/berea/api/schemas"
)

const (
	storeDir  = ".berea"
	storeFile = "credentials.json"
)

// Credentials is a user's locally-held key set plus provider preference.
// Updated only by explicit user action (`berea keys`).
type Credentials struct {
	Groq              string             `json:"groq_api_key,omitempty"`
	OpenRouter        string             `json:"openrouter_api_key,omitempty"`
	Gemini            string             `json:"gemini_api_key,omitempty"`
	Claude            string             `json:"anthropic_api_key,omitempty"`
	ESV               string             `json:"esv_api_key,omitempty"`
	PreferredProvider schemas.ProviderID `json:"preferred_provider,omitempty"`
}

// Key returns the stored key for one provider.
func (c Credentials) Key(id schemas.ProviderID) string {
	switch id {
	case schemas.ProviderGroq:
		return c.Groq
	case schemas.ProviderOpenRouter:
		return c.OpenRouter
	case schemas.ProviderGemini:
		return c.Gemini
	case schemas.ProviderClaude:
		return c.Claude
	}
	return ""
}

// SetKey stores the key for one provider.
func (c *Credentials) SetKey(id schemas.ProviderID, key string) error {
	switch id {
	case schemas.ProviderGroq:
		c.Groq = key
	case schemas.ProviderOpenRouter:
		c.OpenRouter = key
	case schemas.ProviderGemini:
		c.Gemini = key
	case schemas.ProviderClaude:
		c.Claude = key
	default:
		return fmt.Errorf("unknown provider %q", id)
	}
	return nil
}

// HasAnyProviderKey reports whether at least one LLM key is configured.
func (c Credentials) HasAnyProviderKey() bool {
	for _, id := range schemas.ProviderPriority {
		if c.Key(id) != "" {
			return true
		}
	}
	return false
}

// Store reads and writes the credential file.
type Store struct {
	path string
}

// DefaultPath resolves ~/.berea/credentials.json.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, storeDir, storeFile), nil
}

// Open creates a store at path; empty path means the default location.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the credential set. A missing file is an empty set, not an
// error: a fresh install has no keys yet.
func (s *Store) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("reading credential store: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("credential store is corrupt: %w", err)
	}
	return creds, nil
}

// Save writes the credential set with owner-only permissions.
func (s *Store) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing credential store: %w", err)
	}
	return nil
}

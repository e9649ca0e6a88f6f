// Package credentials loads embedding provider API keys from standard
// locations. The environment variable wins; a credentials.toml file is
// the fallback for development setups.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when the credentials file is readable
// by group or others.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// Credentials holds API keys loaded from credentials.toml.
// Provider sections are loaded generically so new providers need no code.
type Credentials struct {
	providers map[string]*ProviderCreds
}

// ProviderCreds holds credentials for a single provider.
type ProviderCreds struct {
	APIKey string `toml:"api_key"`
}

// StandardPaths returns the credential file locations in priority order.
func StandardPaths() []string {
	paths := []string{"credentials.toml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "jobmatch", "credentials.toml"))
		paths = append(paths, filepath.Join(home, ".jobmatch", "credentials.toml"))
	}

	return paths
}

// Load loads credentials from the first available standard location.
// A missing file is not an error; the result is nil credentials.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil
}

// LoadFile loads credentials from a specific file.
// Returns ErrInsecurePermissions unless the file is mode 0400.
func LoadFile(path string) (*Credentials, error) {
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		mode := info.Mode().Perm()
		if mode != 0400 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must be 0400)",
				ErrInsecurePermissions, path, mode)
		}
	}

	var rawData map[string]interface{}
	if _, err := toml.DecodeFile(path, &rawData); err != nil {
		return nil, err
	}

	creds := &Credentials{
		providers: make(map[string]*ProviderCreds),
	}

	for key, value := range rawData {
		section, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		apiKey, _ := section["api_key"].(string)
		if apiKey == "" {
			continue
		}
		creds.providers[strings.ToLower(key)] = &ProviderCreds{APIKey: apiKey}
	}

	return creds, nil
}

// GetAPIKey returns the API key for a provider.
// Priority: environment variable > [provider] section in credentials.toml.
// Returns "" when no key is configured anywhere.
func (c *Credentials) GetAPIKey(provider string) string {
	if key := os.Getenv(EnvVarForProvider(provider)); key != "" {
		return key
	}

	if c != nil {
		normalized := strings.ToLower(strings.ReplaceAll(provider, "-", ""))
		if creds, ok := c.providers[strings.ToLower(provider)]; ok && creds.APIKey != "" {
			return creds.APIKey
		}
		if creds, ok := c.providers[normalized]; ok && creds.APIKey != "" {
			return creds.APIKey
		}
	}

	return ""
}

// ResolveAPIKey resolves a provider key from the environment and the first
// available credentials file. Convenience for client constructors.
func ResolveAPIKey(provider string) string {
	creds, _, _ := Load()
	return creds.GetAPIKey(provider)
}

// EnvVarForProvider returns the environment variable name for a provider.
func EnvVarForProvider(provider string) string {
	switch provider {
	case "openai", "openai-compat":
		return "OPENAI_API_KEY"
	case "google", "gemini":
		return "GEMINI_API_KEY"
	default:
		// Generic: PROVIDER_API_KEY
		return strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider API keys from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed contents are the value.
//
// Recognized key files: nvidia-api-key, openai-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/texslides/pkg/types"
)

// Key file names per provider.
const (
	NvidiaKey = "nvidia-api-key"
	OpenAIKey = "openai-api-key"
	GeminiKey = "gemini-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory yields an empty map. Unreadable files are
// reported on w and skipped.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	if w == nil {
		w = io.Discard
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// KeyName returns the key file that holds the API key for p, or "" when the
// provider needs none.
func KeyName(p types.AIProvider) string {
	switch p {
	case types.ProviderNvidia:
		return NvidiaKey
	case types.ProviderOpenAI:
		return OpenAIKey
	case types.ProviderGemini:
		return GeminiKey
	}
	return ""
}

// ApplyAPIKey fills cfg.APIKey from secrets when the configuration does not
// already carry one. It reports whether a key was applied.
func ApplyAPIKey(cfg *types.AIConfig, secrets map[string]string) bool {
	if cfg.APIKey != "" {
		return false
	}
	key, ok := secrets[KeyName(cfg.Provider)]
	if !ok {
		return false
	}
	cfg.APIKey = key
	return true
}

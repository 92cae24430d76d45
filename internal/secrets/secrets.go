// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves provider credentials. Values come from a
// directory of plain-text files (one file per key, contents trimmed) and
// from environment variables, which take precedence.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is the secrets directory read by the CLI.
const DefaultDir = ".secrets/"

// Key file names.
const (
	SerpAPIKey       = "serpapi-api-key"
	AnthropicAPIKey  = "anthropic-api-key"
	GitHubToken      = "github-token"
	HuggingFaceToken = "hf-token"
	KaggleUsername   = "kaggle-username"
	KaggleKey        = "kaggle-key"
)

// envVars maps each key file to the environment variable that overrides it.
var envVars = map[string]string{
	SerpAPIKey:       "SERPAPI_API_KEY",
	AnthropicAPIKey:  "ANTHROPIC_API_KEY",
	GitHubToken:      "GITHUB_TOKEN",
	HuggingFaceToken: "HF_TOKEN",
	KaggleUsername:   "KAGGLE_USERNAME",
	KaggleKey:        "KAGGLE_KEY",
}

// Secrets holds loaded credential values by key file name.
type Secrets struct {
	files  map[string]string
	getenv func(string) string
}

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (*Secrets, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Secrets{files: map[string]string{}, getenv: os.Getenv}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "file", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s.files[name] = value
		}
	}
	return s, nil
}

// Get returns the value for key. The key's environment variable wins over
// the file; an unknown key is looked up in files only.
func (s *Secrets) Get(key string) string {
	if s == nil {
		return ""
	}
	if env, ok := envVars[key]; ok && s.getenv != nil {
		if v := strings.TrimSpace(s.getenv(env)); v != "" {
			return v
		}
	}
	return s.files[key]
}

// Or returns fallback when it is non-empty, else Get(key). Explicit flag
// and config values use it to take precedence over stored secrets.
func (s *Secrets) Or(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return s.Get(key)
}

// Names returns the sorted key names loaded from files.
func (s *Secrets) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.files))
	for k := range s.files {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return envVars[key]
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files
// and from a dotenv file. In the directory each file is one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, openai-base-url, openai-model-name.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Secret names read by the CLI.
const (
	OpenAIAPIKey    = "openai-api-key"
	OpenAIBaseURL   = "openai-base-url"
	OpenAIModelName = "openai-model-name"
)

// envNames maps dotenv variable names onto secret names.
var envNames = map[string]string{
	"OPENAI_API_KEY":    OpenAIAPIKey,
	"OPENAI_BASE_URL":   OpenAIBaseURL,
	"OPENAI_MODEL_NAME": OpenAIModelName,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile reads a dotenv file. Known OPENAI_* variables are stored under
// their secret names; other keys are kept as written. Empty values are
// skipped. A missing file returns an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	secrets := make(map[string]string, len(vars))
	for key, value := range vars {
		if value == "" {
			continue
		}
		if name, known := envNames[key]; known {
			key = name
		}
		secrets[key] = value
	}
	return secrets, nil
}

// LoadAll merges the dotenv file at envPath with the key files in dir. Key
// files win when both define a secret.
func LoadAll(dir, envPath string) (map[string]string, error) {
	merged, err := LoadEnvFile(envPath)
	if err != nil {
		return nil, err
	}
	fromDir, err := Load(dir)
	if err != nil {
		return nil, err
	}
	for k, v := range fromDir {
		merged[k] = v
	}
	return merged, nil
}

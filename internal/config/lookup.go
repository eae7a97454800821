package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
)

// LoadAPIKey reads the provider API key from a text file. Surrounding
// whitespace is dropped.
func LoadAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", errors.New("read api key: file is empty")
	}
	return key, nil
}

// CodeMap is a read-only name to code table, such as country name to region
// code or region code to ISO-A3.
type CodeMap map[string]string

// LoadCodeMap reads a flat JSON object of string values.
func LoadCodeMap(path string) (CodeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read code map: %w", err)
	}
	var m CodeMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse code map %s: %w", path, err)
	}
	return m, nil
}

// Lookup returns the code for key, or domain.ErrUnknownCountry.
func (m CodeMap) Lookup(key string) (string, error) {
	code, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCountry, key)
	}
	return code, nil
}

// Package lawtext holds the Ontario residential tenancy reference text
// injected into every prompt.
package lawtext

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed ontario_tenancy_law.md
var ontarioTenancyLaw string

// Load returns the embedded Ontario tenancy law text
func Load() string {
	return ontarioTenancyLaw
}

// LoadFile reads a replacement law text from disk.
// An empty path returns the embedded text.
func LoadFile(path string) (string, error) {
	if path == "" {
		return Load(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read law text: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("law text file is empty: %s", path)
	}
	return text, nil
}

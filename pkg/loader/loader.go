// Package loader reads seed documents for the mock data store. A seed
// maps each domain name to its rows and may be written as JSON, YAML or
// TOML.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a seed document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrEmpty is returned for a document without content.
var ErrEmpty = errors.New("empty seed document")

var (
	tomlSection  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// FormatOf picks the format from the file extension, falling back to the
// content.
func FormatOf(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return Detect(string(data))
}

// Detect guesses the format of input. TOML is checked before JSON since
// table headers look like JSON arrays.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") {
		return FormatJSON
	}
	return FormatYAML
}

// isLikelyTOML reports whether input has table headers or mostly
// key = value lines.
func isLikelyTOML(input string) bool {
	var sections, keyValues, nonEmpty int
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}

// Decode parses data in format f into a top-level table.
func Decode(data []byte, f Format) (map[string]any, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmpty
	}
	doc := map[string]any{}
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", strings.ToUpper(string(f)), err)
	}
	return doc, nil
}

// LoadFile reads and decodes the seed document at path.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, FormatOf(path, data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// SeedYAML reads the seed document at path and re-encodes it as YAML,
// the form the mock store decodes.
func SeedYAML(path string) ([]byte, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadProperties reads a flat key=value properties file. Blank lines and
// lines starting with '#' or '!' are ignored; whitespace around keys and
// values is trimmed. A missing file is not an error and yields an empty
// map, since the properties file is optional.
func LoadProperties(path string) (map[string]string, error) {
	props := map[string]string{}

	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return props, nil
		}
		return nil, fmt.Errorf("failed to open properties file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("invalid property on line %d: missing '='", lineNo)
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read properties file: %w", err)
	}

	return props, nil
}

// MergeProperties overlays maps left to right, later maps winning
func MergeProperties(maps ...map[string]string) map[string]string {
	merged := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// File: lixenwraith/gs/config/source.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

var errNotMapping = errors.New("config root must be a mapping")

// Normalize converts a source into the canonical mapping consumed by Load.
//
// Accepted sources:
//   - nil: no values
//   - map[string]any: used as-is
//   - Environ, map[string]string and other string-keyed maps
//   - a string naming an existing file: the file content, TOML when the
//     extension is .toml or .tml
//   - any other string, []byte or io.Reader: JSON text, falling back to YAML
//   - a schema struct value or pointer: its Snapshot
func Normalize(source any) (map[string]any, error) {
	switch src := source.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return src, nil
	case Environ:
		return src.mapping(), nil
	case map[string]string:
		return Environ(src).mapping(), nil
	case string:
		if info, err := os.Stat(src); err == nil && info.Mode().IsRegular() {
			return parseFile(src)
		}
		m, err := parseContent("", []byte(src))
		var sle *SourceLoadError
		if errors.As(err, &sle) && errors.Is(sle.Err, errNotMapping) {
			return nil, &SourceLoadError{Source: strings.TrimSpace(src), Err: fmt.Errorf("not an existing file, and %w", sle.Err)}
		}
		return m, err
	case []byte:
		return parseContent("", src)
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, &SourceLoadError{Err: fmt.Errorf("failed to read source: %w", err)}
		}
		return parseContent("", data)
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return Snapshot(rv.Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		var out map[string]any
		if err := mapstructure.Decode(rv.Interface(), &out); err != nil {
			return nil, &SourceLoadError{Source: rv.Type().String(), Err: err}
		}
		return out, nil
	}
	return nil, &SourceLoadError{Err: fmt.Errorf("unsupported source type %T", source)}
}

// parseFile reads a file source.
func parseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceLoadError{Source: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		out := make(map[string]any)
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, &SourceLoadError{Source: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
		}
		return out, nil
	}
	return parseContent(path, data)
}

// parseContent parses JSON text, then YAML text when JSON fails.
func parseContent(name string, data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	parsed, jsonErr := decodeJSON(data)
	if jsonErr != nil {
		var yamlErr error
		if parsed, yamlErr = parseStructured(string(data)); yamlErr != nil {
			return nil, &SourceLoadError{Source: name, Err: errors.Join(
				fmt.Errorf("invalid JSON: %w", jsonErr),
				fmt.Errorf("invalid YAML: %w", yamlErr),
			)}
		}
	}

	normalized := normalizeValue(parsed)
	if normalized == nil {
		return map[string]any{}, nil
	}
	m, ok := normalized.(map[string]any)
	if !ok {
		return nil, &SourceLoadError{Source: name, Err: fmt.Errorf("%w, got %T", errNotMapping, normalized)}
	}
	return m, nil
}

func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve number precision
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return out, nil
}

// parseStructured parses YAML text. Empty text yields nil.
func parseStructured(text string) (any, error) {
	var out any
	if err := yaml.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	return normalizeValue(out), nil
}

// normalizeValue returns a copy of v with every mapping converted to
// map[string]any and every sequence to []any.
func normalizeValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = normalizeValue(value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[fmt.Sprintf("%v", key)] = normalizeValue(value)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		return out
	case Environ:
		return typed.mapping()
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = normalizeValue(typed[i])
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value().Interface())
		}
		return out
	}
	return v
}

// mergeMaps deep merges src into dst. Nested mappings are merged key by key,
// every other value in src replaces the one in dst.
func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if valueMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, valueMap)
				continue
			}
		}
		dst[key] = value
	}
}

// File: lixenwraith/gs/config/encode.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/gs/config/internal/fsutil"
)

// Format is a text encoding for rendered configuration mappings.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat resolves a format name. "yml" and "tml" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml", "tml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// FormatFromPath determines the format from a file extension. Unknown
// extensions select TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, m map[string]any, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(m); err != nil {
			return fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(m); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		return encoder.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(m); err != nil {
			return fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// Save writes the snapshot of cfg to path in the format chosen by the file
// extension. The file is replaced atomically.
func Save(path string, cfg any) error {
	m, err := Snapshot(cfg)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, m, FormatFromPath(path)); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, buf.Bytes(), 0644)
}

// SampleYAML renders the defaults of the schema selected by v as YAML. Field
// descriptions become comments: a line comment on scalar values, a head
// comment above every other key.
func SampleYAML(v any) ([]byte, error) {
	s, _, err := schemaAndValue(v)
	if err != nil {
		return nil, err
	}
	root, err := s.yamlNode(s.prototype)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to marshal sample to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Schema) yamlNode(v reflect.Value) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range s.fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.ExternalName}
		fv := v.FieldByIndex(f.index)

		var value *yaml.Node
		if f.nested != nil && !f.IsList && !f.inferred {
			nested, err := f.nested.yamlNode(fv)
			if err != nil {
				return nil, err
			}
			value = nested
			key.HeadComment = f.Description
		} else {
			value = &yaml.Node{}
			if err := value.Encode(f.render(fv)); err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", f.ExternalName, err)
			}
			if value.Kind == yaml.ScalarNode {
				value.LineComment = f.Description
			} else {
				key.HeadComment = f.Description
			}
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

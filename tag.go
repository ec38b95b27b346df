// File: lixenwraith/gs/config/tag.go
package config

import (
	"reflect"
	"strings"
	"unicode"
)

// Struct tag keys understood by the schema introspector.
const (
	TagEnv     = "env"
	TagDesc    = "desc"
	TagDefault = "default"
	TagConfig  = "config"
)

// envToken prefixes an external name inside a desc annotation.
const envToken = "ENV:"

// fieldTag is the annotation metadata of one struct field.
type fieldTag struct {
	skip        bool
	external    string // bound external name, empty when unbound
	description string
	defaultText string
	hasDefault  bool
}

func parseFieldTag(field reflect.StructField) fieldTag {
	var tag fieldTag

	if name, _, _ := strings.Cut(field.Tag.Get(TagConfig), ","); name == "-" {
		tag.skip = true
		return tag
	}

	tag.description = strings.TrimSpace(field.Tag.Get(TagDesc))
	tag.defaultText, tag.hasDefault = field.Tag.Lookup(TagDefault)

	if env := strings.TrimSpace(field.Tag.Get(TagEnv)); env != "" {
		tag.external = env
	} else {
		tag.external = envFromAnnotation(tag.description)
	}

	return tag
}

// envFromAnnotation returns the name following the first ENV: token in a
// free-text annotation, or "" when there is none.
func envFromAnnotation(text string) string {
	for {
		idx := strings.Index(text, envToken)
		if idx < 0 {
			return ""
		}
		rest := text[idx+len(envToken):]
		end := strings.IndexFunc(rest, func(r rune) bool {
			return unicode.IsSpace(r) || r == ',' || r == ';' || r == ')'
		})
		if end < 0 {
			end = len(rest)
		}
		if name := rest[:end]; name != "" {
			return name
		}
		text = rest
	}
}

// File: lixenwraith/gs/config/environ.go
package config

import (
	"os"
	"strings"
)

// Environ is a snapshot of environment variable assignments. Every value is a
// string, so fields are filled through the string coercion rules.
type Environ map[string]string

// ProcessEnviron snapshots the environment of the current process.
func ProcessEnviron() Environ {
	return ParseEnviron(os.Environ())
}

// ParseEnviron converts KEY=VALUE pairs into a snapshot. Entries without '='
// are ignored; the last assignment of a key wins.
func ParseEnviron(pairs []string) Environ {
	env := make(Environ, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Lookup returns the value of key.
func (e Environ) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Filter returns the entries whose key starts with prefix, with the prefix
// removed.
func (e Environ) Filter(prefix string) Environ {
	out := make(Environ)
	for key, value := range e {
		if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
			out[name] = value
		}
	}
	return out
}

func (e Environ) mapping() map[string]any {
	m := make(map[string]any, len(e))
	for key, value := range e {
		m[key] = value
	}
	return m
}

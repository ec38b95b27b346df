// File: lixenwraith/gs/config/errors.go
package config

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrSchema marks errors raised while deriving a schema from a type.
	ErrSchema = errors.New("invalid config schema")
	// ErrCoercion marks errors raised while converting a raw value.
	ErrCoercion = errors.New("cannot coerce value")
	// ErrSourceLoad marks errors raised while reading or parsing a source.
	ErrSourceLoad = errors.New("cannot load configuration")
	// ErrUnsupportedType is wrapped when a declared type has no coercion rule.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrConfigNotFound is returned by discovery when no file was found.
	ErrConfigNotFound = errors.New("configuration file not found")
)

// SchemaError reports a declaration that cannot be turned into a schema.
// The schema is unusable as a whole.
type SchemaError struct {
	Type   reflect.Type
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.String()
	}
	msg := fmt.Sprintf("config: schema %s", name)
	if e.Field != "" {
		msg += "." + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// CoercionError reports a raw value that cannot be converted to the declared
// type of a field. Path is the external path of the field, e.g. "SUBS[1].PORT".
type CoercionError struct {
	Path  string
	Type  reflect.Type
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	target := "<nil>"
	if e.Type != nil {
		target = e.Type.String()
	}
	if e.Path == "" {
		return fmt.Sprintf("config: cannot coerce %T(%v) to %s: %v", e.Value, e.Value, target, e.Err)
	}
	return fmt.Sprintf("config: field %s: cannot coerce %T(%v) to %s: %v", e.Path, e.Value, e.Value, target, e.Err)
}

// Is matches ErrCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// SourceLoadError reports an unreadable source or content that is neither
// JSON nor YAML. Err carries the original cause.
type SourceLoadError struct {
	Source string
	Err    error
}

func (e *SourceLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", ErrSourceLoad, e.Err)
	}
	return fmt.Sprintf("%s from %s: %v", ErrSourceLoad, e.Source, e.Err)
}

// Is matches ErrSourceLoad.
func (e *SourceLoadError) Is(target error) bool {
	return target == ErrSourceLoad
}

func (e *SourceLoadError) Unwrap() error {
	return e.Err
}

// withPath prefixes the path of a nested coercion error. Other errors are
// returned unchanged so hook errors propagate as-is.
func withPath(err error, prefix string) error {
	var ce *CoercionError
	if !errors.As(err, &ce) {
		return err
	}
	switch {
	case ce.Path == "":
		ce.Path = prefix
	case ce.Path[0] == '[':
		ce.Path = prefix + ce.Path
	default:
		ce.Path = prefix + "." + ce.Path
	}
	return err
}

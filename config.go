// File: lixenwraith/gs/config/config.go
package config

import (
	"fmt"
	"reflect"
)

// Load builds a *T from source. Fields missing from the source keep their
// defaults. Any schema, source or coercion error aborts the construction and
// no instance is returned. If *T implements PostLoader, PostLoad runs last and
// its error is returned unchanged.
func Load[T any](source any) (*T, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: t, Reason: "schema must be a struct type"}
	}
	s, err := SchemaOf(t)
	if err != nil {
		return nil, err
	}
	v, err := s.load(source)
	if err != nil {
		return nil, err
	}
	return v.Addr().Interface().(*T), nil
}

// New returns a *T holding every default.
func New[T any]() (*T, error) {
	return Load[T](nil)
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](source any) *T {
	cfg, err := Load[T](source)
	if err != nil {
		panic(fmt.Sprintf("config: load %s: %v", reflect.TypeFor[T](), err))
	}
	return cfg
}

// LoadInto builds a value of the type target points to and stores it in
// target. target is left untouched on error.
func LoadInto(target any, source any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &SchemaError{Type: reflect.TypeOf(target), Reason: "target must be a non-nil pointer to a struct"}
	}
	s, err := SchemaOf(rv.Type().Elem())
	if err != nil {
		return err
	}
	v, err := s.load(source)
	if err != nil {
		return err
	}
	rv.Elem().Set(v)
	return nil
}

// Load builds an instance of the schema type from source and returns a
// pointer to it.
func (s *Schema) Load(source any) (any, error) {
	v, err := s.load(source)
	if err != nil {
		return nil, err
	}
	return v.Addr().Interface(), nil
}

func (s *Schema) load(source any) (reflect.Value, error) {
	m, err := Normalize(source)
	if err != nil {
		return reflect.Value{}, err
	}
	return s.build(m, s.prototype)
}

// build constructs an addressable instance from m starting at a copy of proto.
func (s *Schema) build(m map[string]any, proto reflect.Value) (reflect.Value, error) {
	out := cloneValue(proto)
	for _, f := range s.fields {
		raw, ok := m[f.ExternalName]
		if !ok || raw == nil {
			continue
		}

		slot := out.FieldByIndex(f.index)
		var current reflect.Value
		if f.nested != nil && !f.IsList {
			current = slot
			if current.Kind() == reflect.Interface {
				current = current.Elem()
			}
		}

		v, err := coerceField(raw, f, current)
		if err != nil {
			return reflect.Value{}, withPath(err, f.ExternalName)
		}
		slot.Set(v)
	}

	if hook, ok := out.Addr().Interface().(PostLoader); ok {
		if err := hook.PostLoad(); err != nil {
			return reflect.Value{}, err
		}
	}
	return out, nil
}

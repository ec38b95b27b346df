// File: lixenwraith/gs/config/project.go
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Sample renders the defaults of the schema selected by v as a mapping keyed
// by external names. v may be a schema value, a pointer to one or its
// reflect.Type; its field values are ignored.
func Sample(v any) (map[string]any, error) {
	s, _, err := schemaAndValue(v)
	if err != nil {
		return nil, err
	}
	return s.Sample(), nil
}

// Snapshot renders the current values of a config instance as a mapping keyed
// by external names. The result is a valid source for Load.
func Snapshot(v any) (map[string]any, error) {
	s, rv, err := schemaAndValue(v)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() {
		return nil, &SchemaError{Type: s.typ, Reason: "snapshot requires an instance"}
	}
	return s.render(rv), nil
}

// Sample renders the schema defaults.
func (s *Schema) Sample() map[string]any {
	return s.render(s.prototype)
}

func schemaAndValue(v any) (*Schema, reflect.Value, error) {
	if t, ok := v.(reflect.Type); ok {
		s, err := SchemaOf(t)
		return s, reflect.Value{}, err
	}
	if v == nil {
		return nil, reflect.Value{}, &SchemaError{Reason: "nil value"}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			s, err := SchemaOf(rv.Type())
			return s, reflect.Value{}, err
		}
		rv = rv.Elem()
	}
	s, err := SchemaOf(rv.Type())
	if err != nil {
		return nil, reflect.Value{}, err
	}
	return s, rv, nil
}

func (s *Schema) render(v reflect.Value) map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		out[f.ExternalName] = f.render(v.FieldByIndex(f.index))
	}
	return out
}

func (f *Field) render(v reflect.Value) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !f.IsList {
		return renderScalar(v, f.Kind, f.nested)
	}
	if v.Kind() != reflect.Slice {
		return []any{renderScalar(v, f.Kind, f.nested)}
	}
	items := make([]any, v.Len())
	for i := range items {
		items[i] = renderScalar(v.Index(i), f.Kind, f.nested)
	}
	return items
}

func renderScalar(v reflect.Value, kind Kind, nested *Schema) any {
	switch kind {
	case KindDateTime:
		return v.Interface().(time.Time).Format(DateTimeLayout)
	case KindDate:
		return v.Interface().(Date).String()
	case KindDuration:
		return durationMap(time.Duration(v.Int()))
	case KindNested:
		return nested.render(v)
	default:
		return v.Interface()
	}
}

// durationMap splits d into days, seconds and microseconds. Seconds and
// microseconds are never negative; the sign is carried by days.
func durationMap(d time.Duration) map[string]any {
	const (
		microsPerSecond = int64(time.Second / time.Microsecond)
		microsPerDay    = 86400 * microsPerSecond
	)
	us := int64(d / time.Microsecond)
	days := us / microsPerDay
	rem := us % microsPerDay
	if rem < 0 {
		days--
		rem += microsPerDay
	}
	return map[string]any{
		"days":         days,
		"seconds":      rem / microsPerSecond,
		"microseconds": rem % microsPerSecond,
	}
}

// Describe returns a one-line form of a config instance, e.g.
// `Config(INT_ARG=2, SUB_CONFIG=Sub(ARG_1=1, ARG_2="ABCD"))`.
func Describe(v any) string {
	s, rv, err := schemaAndValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	if !rv.IsValid() {
		rv = s.prototype
	}
	return s.describe(rv)
}

func (s *Schema) describe(v reflect.Value) string {
	var b strings.Builder
	b.WriteString(s.typ.Name())
	b.WriteByte('(')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.ExternalName)
		b.WriteByte('=')
		b.WriteString(f.describe(v.FieldByIndex(f.index)))
	}
	b.WriteByte(')')
	return b.String()
}

func (f *Field) describe(v reflect.Value) string {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "<nil>"
		}
		v = v.Elem()
	}
	if !f.IsList || v.Kind() != reflect.Slice {
		return describeScalar(v, f.Kind, f.nested)
	}
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = describeScalar(v.Index(i), f.Kind, f.nested)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func describeScalar(v reflect.Value, kind Kind, nested *Schema) string {
	switch kind {
	case KindNested:
		return nested.describe(v)
	case KindString:
		return strconv.Quote(v.String())
	case KindDuration:
		return time.Duration(v.Int()).String()
	case KindDateTime, KindDate:
		return fmt.Sprintf("%v", renderScalar(v, kind, nil))
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

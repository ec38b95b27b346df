// File: lixenwraith/gs/config/schema.go
package config

import (
	"fmt"
	"reflect"
	"sync"
)

// Defaulter is implemented by schema types that assign their own defaults.
// SetDefaults is called once per type on a value whose nested fields and
// `default` tags are already applied.
type Defaulter interface {
	SetDefaults()
}

// PostLoader is implemented by schema types that normalize or validate
// themselves after every field is assigned. Errors are returned to the caller
// of Load unchanged.
type PostLoader interface {
	PostLoad() error
}

// Field describes one configuration key of a schema.
type Field struct {
	Name         string       // Go field name
	ExternalName string       // key used in source mappings
	Description  string       // desc tag text
	Kind         Kind         // semantic type of the element
	Type         reflect.Type // element type, inferred from the default for `any` fields
	IsList       bool         // field holds a slice of Type
	Default      any          // default value

	index        []int
	valueType    reflect.Type // full type of the value (slice type for lists)
	bound        bool         // ExternalName came from an annotation
	inferred     bool         // declared as an interface
	nested       *Schema
	defaultValue reflect.Value
}

// Schema is the immutable field table derived from a struct type.
type Schema struct {
	typ        reflect.Type
	fields     []*Field
	byName     map[string]*Field
	byExternal map[string]*Field
	prototype  reflect.Value // instance holding every default, never mutated
}

// schemaCache publishes one *Schema per struct type. Entries are written once
// and read without further synchronization.
var schemaCache sync.Map

// SchemaFor returns the schema of T.
func SchemaFor[T any]() (*Schema, error) {
	return SchemaOf(reflect.TypeFor[T]())
}

// SchemaOf returns the schema of a struct type or pointer to struct type.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, &SchemaError{Reason: "nil type"}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	b := &schemaBuilder{building: make(map[reflect.Type]bool)}
	return b.schema(t)
}

// Type returns the struct type the schema was derived from.
func (s *Schema) Type() reflect.Type {
	return s.typ
}

// Fields returns the field table in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.public()
	}
	return out
}

// Field returns the field with the given Go name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return f.public(), true
}

// Lookup returns the field bound to an external name.
func (s *Schema) Lookup(externalName string) (Field, bool) {
	f, ok := s.byExternal[externalName]
	if !ok {
		return Field{}, false
	}
	return f.public(), true
}

// ExternalNames returns the external names in declaration order.
func (s *Schema) ExternalNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.ExternalName
	}
	return names
}

// Nested returns the schema of a nested field's element type.
func (f Field) Nested() *Schema {
	return f.nested
}

func (f *Field) public() Field {
	cp := *f
	cp.Default = cloneValue(f.defaultValue).Interface()
	return cp
}

// schemaBuilder tracks the types under construction to reject cycles.
type schemaBuilder struct {
	building map[reflect.Type]bool
}

func (b *schemaBuilder) schema(t reflect.Type) (*Schema, error) {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*Schema), nil
	}
	if t.Kind() != reflect.Struct || kindOf(t) != KindNested {
		return nil, &SchemaError{Type: t, Reason: "schema must be a struct type"}
	}
	if b.building[t] {
		return nil, &SchemaError{Type: t, Reason: "cyclic schema reference"}
	}
	b.building[t] = true
	defer delete(b.building, t)

	s, err := b.build(t)
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func (b *schemaBuilder) build(t reflect.Type) (*Schema, error) {
	fields, tags, err := b.collect(t, nil)
	if err != nil {
		return nil, err
	}

	s := &Schema{
		typ:        t,
		fields:     fields,
		byName:     make(map[string]*Field, len(fields)),
		byExternal: make(map[string]*Field, len(fields)),
	}

	proto := reflect.New(t).Elem()

	// Nested defaults and `default` tags
	for _, f := range fields {
		slot := proto.FieldByIndex(f.index)
		if f.nested != nil && !f.IsList {
			slot.Set(cloneValue(f.nested.prototype))
		}
		tag := tags[f.Name]
		if !tag.hasDefault {
			continue
		}
		v, err := tagDefault(tag.defaultText, f, slot)
		if err != nil {
			return nil, &SchemaError{Type: t, Field: f.Name, Reason: "invalid default", Err: err}
		}
		if v.IsValid() {
			slot.Set(v)
		}
	}

	if d, ok := proto.Addr().Interface().(Defaulter); ok {
		d.SetDefaults()
	}

	// Interface fields take their type from the default
	for _, f := range fields {
		if !f.inferred {
			continue
		}
		slot := proto.FieldByIndex(f.index)
		if slot.IsNil() {
			return nil, &SchemaError{Type: t, Field: f.Name, Reason: "no type specified and no default value"}
		}
		if err := b.resolve(t, f, slot.Elem().Type()); err != nil {
			return nil, err
		}
	}

	for _, f := range fields {
		f.defaultValue = cloneValue(proto.FieldByIndex(f.index))

		if other, dup := s.byExternal[f.ExternalName]; dup {
			return nil, &SchemaError{Type: t, Field: f.Name,
				Reason: fmt.Sprintf("external name %q already bound to %s", f.ExternalName, other.Name)}
		}
		s.byName[f.Name] = f
		s.byExternal[f.ExternalName] = f
	}
	s.prototype = proto

	return s, nil
}

// collect gathers the fields of t. Embedded structs are ancestors: their fields
// come first and a same-named field of the child replaces them, inheriting the
// ancestor's external name and default when the child declares none.
func (b *schemaBuilder) collect(t reflect.Type, prefix []int) ([]*Field, map[string]fieldTag, error) {
	var fields []*Field
	tags := make(map[string]fieldTag)
	pos := make(map[string]int)

	add := func(f *Field, tag fieldTag) {
		if i, exists := pos[f.Name]; exists {
			if prev := fields[i]; !f.bound && prev.bound {
				f.ExternalName = prev.ExternalName
				f.bound = true
			}
			if prevTag := tags[f.Name]; !tag.hasDefault && prevTag.hasDefault {
				tag.defaultText, tag.hasDefault = prevTag.defaultText, true
			}
			fields[i] = f
		} else {
			pos[f.Name] = len(fields)
			fields = append(fields, f)
		}
		tags[f.Name] = tag
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous || sf.Type.Kind() != reflect.Struct || kindOf(sf.Type) != KindNested {
			continue
		}
		if parseFieldTag(sf).skip {
			continue
		}
		parent, parentTags, err := b.collect(sf.Type, indexOf(prefix, i))
		if err != nil {
			return nil, nil, err
		}
		for _, pf := range parent {
			add(pf, parentTags[pf.Name])
		}
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && kindOf(sf.Type) == KindNested {
			continue
		}
		if !sf.IsExported() {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}

		tag := parseFieldTag(sf)
		if tag.skip {
			continue
		}

		f := &Field{
			Name:         sf.Name,
			ExternalName: sf.Name,
			Description:  tag.description,
			index:        indexOf(prefix, i),
		}
		if tag.external != "" {
			f.ExternalName = tag.external
			f.bound = true
		}

		if sf.Type.Kind() == reflect.Interface {
			f.inferred = true
		} else if err := b.resolve(t, f, sf.Type); err != nil {
			return nil, nil, err
		}
		add(f, tag)
	}

	return fields, tags, nil
}

// resolve fills the type information of f from its declared or inferred type.
func (b *schemaBuilder) resolve(owner reflect.Type, f *Field, declared reflect.Type) error {
	elem, kind, isList := classify(declared)
	if isList && elem.Kind() == reflect.Interface {
		return &SchemaError{Type: owner, Field: f.Name,
			Reason: fmt.Sprintf("list must declare its element type, got %s", declared)}
	}
	if kind == KindInvalid {
		return &SchemaError{Type: owner, Field: f.Name, Reason: declared.String(), Err: ErrUnsupportedType}
	}
	if kind == KindNested {
		nested, err := b.schema(elem)
		if err != nil {
			return err
		}
		f.nested = nested
	}
	f.Kind = kind
	f.Type = elem
	f.IsList = isList
	f.valueType = declared
	return nil
}

// tagDefault converts the text of a `default` tag into a value for f.
// Interface fields keep the parsed value as-is.
func tagDefault(text string, f *Field, current reflect.Value) (reflect.Value, error) {
	if !f.inferred && !f.IsList && f.Kind == KindString {
		out := reflect.New(f.Type).Elem()
		out.SetString(text)
		return out, nil
	}

	parsed, err := parseStructured(text)
	if err != nil {
		return reflect.Value{}, err
	}
	if parsed == nil {
		return reflect.Value{}, nil
	}
	if f.inferred {
		return reflect.ValueOf(parsed), nil
	}
	if f.IsList && !isSequence(parsed) {
		parsed = []any{parsed}
	}

	var proto reflect.Value
	if f.nested != nil && !f.IsList {
		proto = current
	}
	return coerceField(parsed, f, proto)
}

func indexOf(prefix []int, i int) []int {
	index := make([]int, len(prefix)+1)
	copy(index, prefix)
	index[len(prefix)] = i
	return index
}

// cloneValue deep copies slices, structs and interfaces so that instances never
// share backing arrays with the schema defaults.
func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out
	case reflect.Struct:
		if v.Type() == timeType || v.Type() == dateType {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		cloneInto(out, v)
		return out
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneValue(v.Elem()))
		return out
	default:
		return v
	}
}

func cloneInto(dst, src reflect.Value) {
	t := dst.Type()
	for i := 0; i < dst.NumField(); i++ {
		df := dst.Field(i)
		switch {
		case df.CanSet():
			df.Set(cloneValue(src.Field(i)))
		case t.Field(i).Anonymous && df.Kind() == reflect.Struct:
			cloneInto(df, src.Field(i))
		}
	}
}

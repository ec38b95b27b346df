// File: lixenwraith/gs/config/kind.go
package config

import (
	"reflect"
	"time"
)

// Kind is the semantic type of a field. The set is closed: every kind has a
// coercion rule in coerce.go and a rendering rule in project.go.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindString
	KindDateTime
	KindDate
	KindDuration
	KindNested
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindInt:      "integer",
	KindUint:     "unsigned integer",
	KindFloat:    "float",
	KindBool:     "boolean",
	KindString:   "string",
	KindDateTime: "datetime",
	KindDate:     "date",
	KindDuration: "duration",
	KindNested:   "nested",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	dateType     = reflect.TypeFor[Date]()
	durationType = reflect.TypeFor[time.Duration]()
)

// kindOf classifies a scalar or struct type. Slices are handled by the caller.
func kindOf(t reflect.Type) Kind {
	switch t {
	case timeType:
		return KindDateTime
	case dateType:
		return KindDate
	case durationType:
		return KindDuration
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Struct:
		return KindNested
	default:
		return KindInvalid
	}
}

// classify splits a declared type into its element kind and list-ness.
func classify(t reflect.Type) (elem reflect.Type, kind Kind, isList bool) {
	if t.Kind() == reflect.Slice {
		elem = t.Elem()
		return elem, kindOf(elem), true
	}
	return t, kindOf(t), false
}

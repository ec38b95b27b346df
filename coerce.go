// File: lixenwraith/gs/config/coerce.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Coerce converts raw into a value of type t following the same rules used
// when loading a field of that type. t may be a slice of a supported type.
func Coerce(raw any, t reflect.Type) (any, error) {
	if t == nil {
		return nil, &CoercionError{Value: raw, Err: ErrUnsupportedType}
	}
	elem, kind, isList := classify(t)
	if kind == KindInvalid {
		return nil, &CoercionError{Type: t, Value: raw, Err: ErrUnsupportedType}
	}
	if raw == nil {
		return nil, &CoercionError{Type: t, Value: raw, Err: errors.New("null value")}
	}

	var nested *Schema
	if kind == KindNested {
		s, err := SchemaOf(elem)
		if err != nil {
			return nil, err
		}
		nested = s
	}

	var (
		v   reflect.Value
		err error
	)
	if isList {
		v, err = coerceList(raw, t, elem, kind, nested)
	} else {
		v, err = coerceScalar(raw, elem, kind, nested, reflect.Value{})
	}
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// coerceField converts raw for field f. proto is the starting instance for a
// non-list nested field; the nested prototype is used when it is invalid.
func coerceField(raw any, f *Field, proto reflect.Value) (reflect.Value, error) {
	if f.IsList {
		return coerceList(raw, f.valueType, f.Type, f.Kind, f.nested)
	}
	return coerceScalar(raw, f.Type, f.Kind, f.nested, proto)
}

func coerceList(raw any, sliceType, elem reflect.Type, kind Kind, nested *Schema) (reflect.Value, error) {
	items, err := asSequence(raw)
	if err != nil {
		return reflect.Value{}, &CoercionError{Type: sliceType, Value: raw, Err: err}
	}
	out := reflect.MakeSlice(sliceType, items.Len(), items.Len())
	for i := 0; i < items.Len(); i++ {
		item := items.Index(i).Interface()
		if item == nil {
			return reflect.Value{}, withPath(&CoercionError{Type: elem, Err: errors.New("null list element")}, fmt.Sprintf("[%d]", i))
		}
		v, err := coerceScalar(item, elem, kind, nested, reflect.Value{})
		if err != nil {
			return reflect.Value{}, withPath(err, fmt.Sprintf("[%d]", i))
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

func coerceScalar(raw any, t reflect.Type, kind Kind, nested *Schema, proto reflect.Value) (reflect.Value, error) {
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &CoercionError{Type: t, Value: raw, Err: err}
	}
	out := reflect.New(t).Elem()

	switch kind {
	case KindInt:
		n, err := toInt64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowInt(n) {
			return fail(fmt.Errorf("value %d overflows %s", n, t))
		}
		out.SetInt(n)

	case KindUint:
		n, err := toUint64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowUint(n) {
			return fail(fmt.Errorf("value %d overflows %s", n, t))
		}
		out.SetUint(n)

	case KindFloat:
		f, err := toFloat64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowFloat(f) {
			return fail(fmt.Errorf("value %g overflows %s", f, t))
		}
		out.SetFloat(f)

	case KindBool:
		b, err := toBool(raw)
		if err != nil {
			return fail(err)
		}
		out.SetBool(b)

	case KindString:
		s, err := toString(raw)
		if err != nil {
			return fail(err)
		}
		out.SetString(s)

	case KindDateTime:
		tm, err := toDateTime(raw)
		if err != nil {
			return fail(err)
		}
		out.Set(reflect.ValueOf(tm))

	case KindDate:
		d, err := toDate(raw)
		if err != nil {
			return fail(err)
		}
		out.Set(reflect.ValueOf(d))

	case KindDuration:
		d, err := toDuration(raw)
		if err != nil {
			return fail(err)
		}
		out.SetInt(int64(d))

	case KindNested:
		if rv := reflect.ValueOf(raw); rv.Type() == t {
			return cloneValue(rv), nil
		}
		m, err := asMapping(raw)
		if err != nil {
			return fail(err)
		}
		if !proto.IsValid() {
			proto = nested.prototype
		}
		return nested.build(m, proto)

	default:
		return fail(ErrUnsupportedType)
	}

	return out, nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float())
	}
	return 0, fmt.Errorf("expected a number, got %T", raw)
}

// floatToInt truncates toward zero.
func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %g out of integer range", f)
	}
	return int64(f), nil
}

func toUint64(raw any) (uint64, error) {
	if s, ok := raw.(string); ok {
		return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	}
	rv := reflect.ValueOf(raw)
	if k := rv.Kind(); k >= reflect.Uint && k <= reflect.Uint64 {
		return rv.Uint(), nil
	}
	n, err := toInt64(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d for unsigned integer", n)
	}
	return uint64(n), nil
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", raw)
}

// toBool accepts booleans, numbers (non-zero is true) and the token set used by
// environment variables: 1/t/true/on/y* are true, 0/f/false/off/n/no/"" false.
func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return parseBoolToken(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return false, err
		}
		return f != 0, nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", raw)
}

func parseBoolToken(s string) (bool, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	switch token {
	case "1", "t", "true", "on":
		return true, nil
	case "", "0", "f", "false", "off", "n", "no":
		return false, nil
	}
	if strings.HasPrefix(token, "y") {
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean token %q", s)
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", raw)
}

func toDateTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(DateTimeLayout, strings.TrimSpace(v))
	}
	return time.Time{}, fmt.Errorf("expected a %q timestamp string, got %T", DateTimeLayout, raw)
}

func toDate(raw any) (Date, error) {
	switch v := raw.(type) {
	case Date:
		return v, nil
	case time.Time:
		return DateOf(v), nil
	case string:
		return ParseDate(strings.TrimSpace(v))
	}
	return Date{}, fmt.Errorf("expected a %q date string, got %T", DateLayout, raw)
}

// durationParts mirrors the keywords accepted for duration mappings.
type durationParts struct {
	Weeks        float64 `mapstructure:"weeks"`
	Days         float64 `mapstructure:"days"`
	Hours        float64 `mapstructure:"hours"`
	Minutes      float64 `mapstructure:"minutes"`
	Seconds      float64 `mapstructure:"seconds"`
	Milliseconds float64 `mapstructure:"milliseconds"`
	Microseconds float64 `mapstructure:"microseconds"`
}

func (p durationParts) total() (time.Duration, error) {
	ns := p.Weeks*float64(7*24*time.Hour) +
		p.Days*float64(24*time.Hour) +
		p.Hours*float64(time.Hour) +
		p.Minutes*float64(time.Minute) +
		p.Seconds*float64(time.Second) +
		p.Milliseconds*float64(time.Millisecond) +
		p.Microseconds*float64(time.Microsecond)
	ns = math.Round(ns)
	if math.IsNaN(ns) || ns >= math.MaxInt64 || ns < math.MinInt64 {
		return 0, errors.New("duration out of range")
	}
	return time.Duration(ns), nil
}

// toDuration builds a duration from a mapping of unit keywords. Scalars are
// rejected because a bare number carries no unit.
func toDuration(raw any) (time.Duration, error) {
	if d, ok := raw.(time.Duration); ok {
		return d, nil
	}
	m, err := asMapping(raw)
	if err != nil {
		return 0, fmt.Errorf("duration requires a mapping of units: %w", err)
	}

	var parts durationParts
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &parts,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return 0, fmt.Errorf("decoder creation failed: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return 0, err
	}
	return parts.total()
}

// asMapping accepts string-keyed maps and structured text that parses to one.
func asMapping(raw any) (map[string]any, error) {
	if s, ok := raw.(string); ok {
		parsed, err := parseStructured(s)
		if err != nil {
			return nil, err
		}
		if parsed == nil {
			return map[string]any{}, nil
		}
		raw = parsed
	}
	if m, ok := normalizeValue(raw).(map[string]any); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected a mapping, got %T", raw)
}

// asSequence accepts slices, arrays and strings. A string is parsed as
// structured text; when that is not a sequence it is split on commas.
func asSequence(raw any) (reflect.Value, error) {
	if s, ok := raw.(string); ok {
		if parsed, err := parseStructured(s); err == nil && isSequence(parsed) {
			raw = normalizeValue(parsed)
		} else {
			raw = splitList(s)
		}
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("expected a sequence, got %T", raw)
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func splitList(s string) []any {
	if strings.TrimSpace(s) == "" {
		return []any{}
	}
	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

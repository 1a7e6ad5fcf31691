package binder

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// taggedField is a settable struct field bound to a named parameter.
type taggedField struct {
	index int
	name  string
}

type planKey struct {
	typ reflect.Type
	tag string
}

var plans sync.Map // planKey -> []taggedField

func fieldsOf(t reflect.Type, tag string) []taggedField {
	key := planKey{typ: t, tag: tag}
	if cached, ok := plans.Load(key); ok {
		return cached.([]taggedField)
	}

	var fields []taggedField
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, taggedField{index: i, name: name})
	}
	plans.Store(key, fields)
	return fields
}

// bindToStruct fills the fields of *v tagged with tag from lookup. Only tagged
// fields are touched and parameters without values leave the field as is.
func bindToStruct(v any, tag string, lookup func(name string) []string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct", bindErr)
	}
	rv = rv.Elem()

	for _, f := range fieldsOf(rv.Type(), tag) {
		values := lookup(f.name)
		if len(values) == 0 {
			continue
		}
		if err := assign(rv.Field(f.index), values); err != nil {
			return fmt.Errorf("%w: %s: %v", bindErr, f.name, err)
		}
	}
	return nil
}

func assign(field reflect.Value, values []string) error {
	t := field.Type()

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(values[0])); err != nil {
			return fmt.Errorf("invalid value %q", values[0])
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return assign(field.Elem(), values)
	case reflect.Slice:
		var parts []string
		for _, v := range values {
			for p := range strings.SplitSeq(v, ",") {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		slice := reflect.MakeSlice(t, len(parts), len(parts))
		for i, p := range parts {
			if err := assign(slice.Index(i), []string{p}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	default:
		return parseScalar(field, values[0])
	}
}

func parseScalar(field reflect.Value, s string) error {
	t := field.Type()
	switch t.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, ok := parseBool(s)
		if !ok {
			return fmt.Errorf("invalid boolean %q", s)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", t)
	}
	return nil
}

// parseBool also accepts on/off and yes/no as sent by HTML checkboxes and
// hand-written links.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, true
	case "off", "no", "":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	return b, err == nil
}

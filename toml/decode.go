package toml

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Unmarshal parses TOML data and stores the result in the struct pointed to by v
// Keys absent from the document leave their fields untouched, so callers
// pre-fill defaults; unknown keys are ignored
func Unmarshal(data []byte, v any) error {
	doc, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	return Decode(doc, v)
}

// Decode maps a parsed document onto a struct using `toml` tags, falling back to field names
func Decode(doc map[string]any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil struct pointer")
	}
	return decodeStruct(doc, val.Elem())
}

func decodeStruct(data map[string]any, val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		key, _, skip := tagKey(fieldType)
		if skip {
			continue
		}

		vData, ok := data[key]
		if !ok {
			continue
		}
		if err := decodeValue(vData, val.Field(i)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func decodeValue(data any, val reflect.Value) error {
	switch val.Kind() {
	case reflect.Ptr:
		newVal := reflect.New(val.Type().Elem())
		if err := decodeValue(data, newVal.Elem()); err != nil {
			return err
		}
		val.Set(newVal)

	case reflect.Struct:
		table, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		return decodeStruct(table, val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := data.(int64)
		if !ok {
			return fmt.Errorf("expected integer, got %T", data)
		}
		if val.OverflowInt(n) {
			return fmt.Errorf("integer %d overflows %s", n, val.Type())
		}
		val.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := data.(int64)
		if !ok || n < 0 {
			return fmt.Errorf("expected non-negative integer, got %v", data)
		}
		if val.OverflowUint(uint64(n)) {
			return fmt.Errorf("integer %d overflows %s", n, val.Type())
		}
		val.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		switch f := data.(type) {
		case float64:
			val.SetFloat(f)
		case int64:
			val.SetFloat(float64(f))
		default:
			return fmt.Errorf("expected float, got %T", data)
		}
		if math.IsNaN(val.Float()) {
			return fmt.Errorf("NaN not allowed")
		}

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", data)
		}
		val.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", data)
		}
		val.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type %s", val.Type())
	}
	return nil
}

// tagKey returns the document key for a field and its omitempty flag
func tagKey(f reflect.StructField) (key string, omitEmpty, skip bool) {
	key = f.Name
	tag := f.Tag.Get("toml")
	if tag == "" {
		return key, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", false, true
	}
	if parts[0] != "" {
		key = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return key, omitEmpty, false
}

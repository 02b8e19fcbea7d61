package toml

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of the struct v
//
// Scalar fields are written first in declaration order, then each nested
// struct field as a [table]; nil pointers and `omitempty` zero values are skipped
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("marshal: cannot marshal nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal: root must be struct, got %v", val.Kind())
	}

	enc := &encoder{buf: new(bytes.Buffer)}
	if err := enc.writeTable(val, true); err != nil {
		return nil, err
	}
	return enc.buf.Bytes(), nil
}

type encoder struct {
	buf *bytes.Buffer
}

type field struct {
	key string
	val reflect.Value
}

// writeTable writes scalars then, at the root only, sub-tables
func (e *encoder) writeTable(rv reflect.Value, root bool) error {
	var scalars, tables []field

	typ := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		ft := typ.Field(i)
		if !ft.IsExported() {
			continue
		}
		key, omitEmpty, skip := tagKey(ft)
		if skip {
			continue
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if omitEmpty && fv.IsZero() {
			continue
		}

		if fv.Kind() == reflect.Struct {
			if !root {
				return fmt.Errorf("key %q: nested tables deeper than one level", key)
			}
			tables = append(tables, field{key, fv})
			continue
		}
		scalars = append(scalars, field{key, fv})
	}

	for _, f := range scalars {
		e.writeKey(f.key)
		e.buf.WriteString(" = ")
		if err := e.writeScalar(f.val); err != nil {
			return fmt.Errorf("key %q: %w", f.key, err)
		}
		e.buf.WriteString("\n")
	}

	for _, f := range tables {
		if e.buf.Len() > 0 {
			e.buf.WriteString("\n")
		}
		e.buf.WriteString("[")
		e.writeKey(f.key)
		e.buf.WriteString("]\n")
		if err := e.writeTable(f.val, false); err != nil {
			return err
		}
	}
	return nil
}

// writeScalar writes a single scalar
func (e *encoder) writeScalar(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.String:
		e.writeQuoted(v.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		str := strconv.FormatFloat(v.Float(), 'f', -1, 64)
		if !strings.ContainsAny(str, ".eE") {
			str += ".0"
		}
		e.buf.WriteString(str)

	default:
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
	return nil
}

func (e *encoder) writeKey(s string) {
	if isBareKey(s) {
		e.buf.WriteString(s)
		return
	}
	e.writeQuoted(s)
}

func (e *encoder) writeQuoted(s string) {
	e.buf.WriteString("\"")
	for _, r := range s {
		switch r {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		default:
			e.buf.WriteRune(r)
		}
	}
	e.buf.WriteString("\"")
}

// isBareKey reports whether s can be written unquoted and read back as a key
// Keys the lexer would classify as numbers or booleans must be quoted
func isBareKey(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	for _, r := range s {
		if !(isAlpha(r) || isDigit(r) || r == '_' || r == '-') {
			return false
		}
	}
	return !looksNumeric(s)
}

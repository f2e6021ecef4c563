package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 1000

// Parse decodes a single JSON document, preserving object key order and
// number literals. Trailing non-whitespace data is an error. When a key is
// repeated inside one object the last value wins and keeps the position of
// the first occurrence.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, fmt.Errorf("empty JSON document")
		}
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return Value{}, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return Value{}, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, fmt.Errorf("JSON nesting exceeds %d levels", maxDepth)
	}
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
		}
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return NullValue(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v (%T)", tok, tok)
	}
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	members := []Member{}
	seen := make(map[string]int)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		key, ok := kt.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string key, got %T", kt)
		}
		val, err := decodeValue(dec, depth+1)
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		if i, dup := seen[key]; dup {
			members[i].Value = val
			continue
		}
		seen[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, unexpectedEOF(err)
	}
	return ObjectValue(members...), nil
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		val, err := decodeValue(dec, depth+1)
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, unexpectedEOF(err)
	}
	return ArrayValue(items...), nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// MarshalJSON writes v in compact form.
func (v Value) MarshalJSON() ([]byte, error) {
	e := newEncoder()
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return e.out.Bytes(), nil
}

// Marshal writes v indented by two spaces and terminated by a newline.
// HTML characters are not escaped.
func Marshal(v Value) ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

type encoder struct {
	out     bytes.Buffer
	scratch bytes.Buffer
	str     *json.Encoder
}

func newEncoder() *encoder {
	e := &encoder{}
	e.str = json.NewEncoder(&e.scratch)
	e.str.SetEscapeHTML(false)
	return e
}

func (e *encoder) encode(v Value) error {
	switch v.kind {
	case Null:
		e.out.WriteString("null")
	case Bool:
		e.out.WriteString(strconv.FormatBool(v.boolean))
	case Number:
		if !json.Valid([]byte(v.text)) {
			return fmt.Errorf("invalid number literal %q", v.text)
		}
		e.out.WriteString(v.text)
	case String:
		return e.encodeString(v.text)
	case Array:
		e.out.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				e.out.WriteByte(',')
			}
			if err := e.encode(item); err != nil {
				return err
			}
		}
		e.out.WriteByte(']')
	case Object:
		e.out.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				e.out.WriteByte(',')
			}
			if err := e.encodeString(m.Key); err != nil {
				return err
			}
			e.out.WriteByte(':')
			if err := e.encode(m.Value); err != nil {
				return err
			}
		}
		e.out.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %v", v.kind)
	}
	return nil
}

func (e *encoder) encodeString(s string) error {
	e.scratch.Reset()
	if err := e.str.Encode(s); err != nil {
		return err
	}
	e.out.Write(bytes.TrimSuffix(e.scratch.Bytes(), []byte{'\n'}))
	return nil
}

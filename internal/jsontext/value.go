// Package jsontext provides a typed JSON value that preserves object
// member order and number literals exactly as they appear on the wire.
//
// encoding/json's map[string]interface{} form alphabetizes object keys on
// re-serialization; the export file must keep the key order the API sent,
// so decoding goes through the tokenizer into an ordered representation.
package jsontext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies which JSON type a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Member is a single object member. Members keep insertion order.
type Member struct {
	Key   string
	Value Value
}

// Value is a tagged JSON value: null, bool, number, string, array or object.
// The zero Value is JSON null.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	str     string
	array   []Value
	object  []Member
}

// Kind returns the JSON type of the value.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload. Valid only for KindBool.
func (v Value) Bool() bool { return v.boolean }

// Number returns the number literal as received. Valid only for KindNumber.
func (v Value) Number() json.Number { return v.number }

// Str returns the string payload. Valid only for KindString.
func (v Value) Str() string { return v.str }

// Array returns the element slice. Valid only for KindArray.
func (v Value) Array() []Value { return v.array }

// Object returns the ordered member slice. Valid only for KindObject.
func (v Value) Object() []Member { return v.object }

// Null reports whether the value is JSON null.
func (v Value) Null() bool { return v.kind == KindNull }

// Constructors, used by tests and callers that build values directly.

func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, boolean: b} }
func Number(n json.Number) Value { return Value{kind: KindNumber, number: n} }
func String(s string) Value      { return Value{kind: KindString, str: s} }
func Array(elems ...Value) Value { return Value{kind: KindArray, array: elems} }
func Object(members ...Member) Value {
	return Value{kind: KindObject, object: members}
}

// Decode parses data into a Value. The whole input must be a single JSON
// document; trailing non-whitespace content is an error.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}

	// Reject a second document or any trailing garbage.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("unexpected data after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: val})
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Object(members...), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, val)
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Array(elems...), nil
}

// String returns the compact one-line serialization.
func (v Value) String() string {
	var buf bytes.Buffer
	v.write(&buf, "", "")
	return buf.String()
}

// Indent returns the serialization with the given indentation unit,
// members and elements in decoded order. No trailing newline.
func (v Value) Indent(indent string) []byte {
	var buf bytes.Buffer
	v.write(&buf, "", indent)
	return buf.Bytes()
}

// MarshalJSON implements json.Marshaler with the compact form.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.write(&buf, "", "")
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) write(buf *bytes.Buffer, prefix, indent string) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.number.String())
	case KindString:
		writeQuoted(buf, v.str)
	case KindArray:
		if len(v.array) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		inner := prefix + indent
		for i, elem := range v.array {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewline(buf, inner, indent)
			elem.write(buf, inner, indent)
		}
		writeNewline(buf, prefix, indent)
		buf.WriteByte(']')
	case KindObject:
		if len(v.object) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		inner := prefix + indent
		for i, m := range v.object {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewline(buf, inner, indent)
			writeQuoted(buf, m.Key)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			m.Value.write(buf, inner, indent)
		}
		writeNewline(buf, prefix, indent)
		buf.WriteByte('}')
	}
}

func writeNewline(buf *bytes.Buffer, prefix, indent string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

func writeQuoted(buf *bytes.Buffer, s string) {
	// encoding/json handles all escaping; keys and strings round-trip
	// through the same rules the decoder applied.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

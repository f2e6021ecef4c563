// Package jsontree holds an order-preserving JSON document model and the
// flatten/rebuild operations used to translate string leaves in place.
//
// encoding/json decodes objects into Go maps, which lose key order. Values
// here are decoded from the token stream instead, so a document written back
// out keeps its keys in the order they were read.
package jsontree

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Member is a single key/value entry of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	text    string // string contents, or the literal of a number
	boolean bool
	items   []Value
	members []Member
}

func NullValue() Value { return Value{} }

func BoolValue(b bool) Value { return Value{kind: Bool, boolean: b} }

// NumberValue keeps the literal as written so it round-trips unchanged.
func NumberValue(n json.Number) Value { return Value{kind: Number, text: string(n)} }

func StringValue(s string) Value { return Value{kind: String, text: s} }

func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

func ObjectValue(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: Object, members: members}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the contents of a string value and whether v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.text, true
}

func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.boolean, true
}

func (v Value) Number() (json.Number, bool) {
	if v.kind != Number {
		return "", false
	}
	return json.Number(v.text), true
}

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

// Index returns the i-th array element.
func (v Value) Index(i int) Value {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return Value{}
	}
	return v.items[i]
}

// Member returns the i-th object member in insertion order.
func (v Value) Member(i int) Member {
	if v.kind != Object || i < 0 || i >= len(v.members) {
		return Member{}
	}
	return v.members[i]
}

// Get returns the value stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool {
	return v.kind == Array || v.kind == Object
}

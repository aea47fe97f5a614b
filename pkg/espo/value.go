package espo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindInvalid is the zero Value: no value present.
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindBoolean
	KindArray
	KindObject
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInteger: "integer",
	KindBoolean: "boolean",
	KindArray:   "array",
	KindObject:  "object",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the data carried by filter conditions. It is immutable once built.
type Value struct {
	kind   Kind
	str    string
	num    int64
	flag   bool
	items  []Value
	fields []Field
}

// Field is one key of an Object value.
type Field struct {
	Key   string
	Value Value
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int creates an integer value.
func Int(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBoolean, flag: b}
}

// Array creates an array value from the given items.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value(nil), items...)}
}

// Strings is shorthand for an array of string values.
func Strings(items ...string) Value {
	values := make([]Value, 0, len(items))
	for _, item := range items {
		values = append(values, String(item))
	}

	return Value{kind: KindArray, items: values}
}

// Ints is shorthand for an array of integer values.
func Ints(items ...int64) Value {
	values := make([]Value, 0, len(items))
	for _, item := range items {
		values = append(values, Int(item))
	}

	return Value{kind: KindArray, items: values}
}

// Object creates an object value. Field order is kept as given.
func Object(fields ...Field) Value {
	return Value{kind: KindObject, fields: append([]Field(nil), fields...)}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether a value is present.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// IsScalar reports whether the value is a string, integer or boolean.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindInteger || v.kind == KindBoolean
}

// AsString returns the payload of a string value.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the payload of an integer value.
func (v Value) AsInt() (int64, bool) {
	return v.num, v.kind == KindInteger
}

// AsBool returns the payload of a boolean value.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBoolean
}

// Items returns a copy of the elements of an array value.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}

	return append([]Value(nil), v.items...)
}

// Fields returns a copy of the fields of an object value.
func (v Value) Fields() []Field {
	if v.kind != KindObject {
		return nil
	}

	return append([]Field(nil), v.fields...)
}

// Len returns the number of array elements or object fields.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Equal compares two values by variant tag first, then payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindInvalid:
		return true
	case KindString:
		return v.str == other.str
	case KindInteger:
		return v.num == other.num
	case KindBoolean:
		return v.flag == other.flag
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}

		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}

		return true
	case KindObject:
		if len(v.fields) != len(other.fields) {
			return false
		}

		for i := range v.fields {
			if v.fields[i].Key != other.fields[i].Key || !v.fields[i].Value.Equal(other.fields[i].Value) {
				return false
			}
		}

		return true
	}

	return false
}

// text renders a scalar the way PHP stringifies it in a query string.
func (v Value) text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindBoolean:
		if v.flag {
			return "true"
		}

		return "false"
	default:
		return ""
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindArray:
		parts := make([]string, 0, len(v.items))
		for _, item := range v.items {
			parts = append(parts, item.String())
		}

		return "[" + strings.Join(parts, " ") + "]"
	case KindObject:
		parts := make([]string, 0, len(v.fields))
		for _, field := range v.fields {
			parts = append(parts, field.Key+":"+field.Value.String())
		}

		return "{" + strings.Join(parts, " ") + "}"
	case KindInvalid:
		return "<none>"
	default:
		return v.text()
	}
}

// MarshalJSON encodes the value as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInteger:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.flag)
	case KindArray:
		if v.items == nil {
			return []byte("[]"), nil
		}

		return json.Marshal(v.items)
	case KindObject:
		var buf strings.Builder

		buf.WriteByte('{')

		for i, field := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}

			key, err := json.Marshal(field.Key)
			if err != nil {
				return nil, fmt.Errorf("marshaling object key: %w", err)
			}

			val, err := field.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}

			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}

		buf.WriteByte('}')

		return []byte(buf.String()), nil
	default:
		return []byte("null"), nil
	}
}

// ValueOf converts plain Go data into a Value. Maps are ordered by key since
// Go maps carry no order; use Object for an explicit order.
func ValueOf(data interface{}) (Value, error) {
	switch typed := data.(type) {
	case Value:
		return typed, nil
	case string:
		return String(typed), nil
	case bool:
		return Bool(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int8:
		return Int(int64(typed)), nil
	case int16:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint:
		return uintValue(uint64(typed))
	case uint8:
		return Int(int64(typed)), nil
	case uint16:
		return Int(int64(typed)), nil
	case uint32:
		return Int(int64(typed)), nil
	case uint64:
		return uintValue(typed)
	case float64:
		if typed == math.Trunc(typed) && typed >= math.MinInt64 && typed < math.MaxInt64 {
			return Int(int64(typed)), nil
		}

		return Value{}, fmt.Errorf("%w: non-integral number %v", ErrUnsupportedValueType, typed)
	case []string:
		return Strings(typed...), nil
	case []interface{}:
		items := make([]Value, 0, len(typed))

		for i, item := range typed {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}

			items = append(items, converted)
		}

		return Value{kind: KindArray, items: items}, nil
	case []Field:
		return Object(typed...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		fields := make([]Field, 0, len(keys))

		for _, key := range keys {
			converted, err := ValueOf(typed[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}

			fields = append(fields, Field{Key: key, Value: converted})
		}

		return Value{kind: KindObject, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValueType, data)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d", ErrIntegerOverflow, u)
	}

	return Int(int64(u)), nil
}

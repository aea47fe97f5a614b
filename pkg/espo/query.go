package espo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Wire keys of the list request parameters.
const (
	keySelect         = "select"
	keyOrderBy        = "orderBy"
	keyOrder          = "order"
	keyOffset         = "offset"
	keyBoolFilterList = "boolFilterList"
	keyMaxSize        = "maxSize"
	keyPrimaryFilter  = "primaryFilter"
	keyWhere          = "where"
)

// Serialize renders params in the bracket notation produced by PHP's
// http_build_query. Fields are emitted in the order select, orderBy, order,
// offset, boolFilterList, maxSize, primaryFilter, where. Spaces encode as %20.
func Serialize(params *Params) (string, error) {
	if params == nil {
		return "", nil
	}

	enc := &queryEncoder{}

	if params.Select != nil {
		enc.scalar([]string{keySelect}, String(*params.Select))
	}

	if params.OrderBy != nil {
		enc.scalar([]string{keyOrderBy}, String(*params.OrderBy))
	}

	if params.Order != nil {
		token := params.Order.Token()
		if token == "" {
			return "", &EncodingError{Op: keyOrder, Err: fmt.Errorf("%w: %d", ErrUnknownOrder, int(*params.Order))}
		}

		enc.scalar([]string{keyOrder}, String(token))
	}

	if params.Offset != nil {
		enc.scalar([]string{keyOffset}, Int(*params.Offset))
	}

	if params.BoolFilterList != nil {
		enc.value([]string{keyBoolFilterList}, Strings(params.BoolFilterList...))
	}

	if params.MaxSize != nil {
		enc.scalar([]string{keyMaxSize}, Int(*params.MaxSize))
	}

	if params.PrimaryFilter != nil {
		enc.scalar([]string{keyPrimaryFilter}, String(*params.PrimaryFilter))
	}

	for i, condition := range params.Where {
		object, err := condition.object()
		if err != nil {
			return "", &EncodingError{Op: fmt.Sprintf("%s[%d]", keyWhere, i), Err: err}
		}

		enc.value([]string{keyWhere, strconv.Itoa(i)}, object)
	}

	if enc.err != nil {
		return "", enc.err
	}

	return strings.Join(enc.segments, "&"), nil
}

// Encode is shorthand for Serialize(p).
func (p *Params) Encode() (string, error) {
	return Serialize(p)
}

// EncodeValue renders a single value under the given bracket path, e.g.
// EncodeValue(Strings("a", "b"), "value") yields "value%5B0%5D=a&value%5B1%5D=b".
func EncodeValue(value Value, path ...string) (string, error) {
	enc := &queryEncoder{}
	enc.value(path, value)

	if enc.err != nil {
		return "", enc.err
	}

	return strings.Join(enc.segments, "&"), nil
}

type queryEncoder struct {
	segments []string
	err      error
}

// value walks v, extending path at every array index or object key and
// emitting a key=value segment for each scalar leaf.
func (e *queryEncoder) value(path []string, v Value) {
	if e.err != nil {
		return
	}

	switch v.kind {
	case KindArray:
		for i, item := range v.items {
			e.value(appendPath(path, strconv.Itoa(i)), item)
		}
	case KindObject:
		for _, field := range v.fields {
			e.value(appendPath(path, field.Key), field.Value)
		}
	case KindInvalid:
		// absent values emit nothing
	default:
		e.scalar(path, v)
	}
}

func (e *queryEncoder) scalar(path []string, v Value) {
	key := BracketPath(path...)

	if !utf8.ValidString(key) {
		e.err = &EncodingError{Op: key, Err: fmt.Errorf("key: %w", ErrInvalidUTF8)}

		return
	}

	text := v.text()
	if !utf8.ValidString(text) {
		e.err = &EncodingError{Op: key, Err: fmt.Errorf("value: %w", ErrInvalidUTF8)}

		return
	}

	e.segments = append(e.segments, escape(key)+"="+escape(text))
}

// BracketPath renders [p0, p1, ..., pn] as "p0[p1]...[pn]".
func BracketPath(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(segments[0])

	for _, segment := range segments[1:] {
		builder.WriteByte('[')
		builder.WriteString(segment)
		builder.WriteByte(']')
	}

	return builder.String()
}

// escape percent-encodes a query component with spaces as %20. QueryEscape
// encodes a literal '+' as %2B, so every '+' left in its output is a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func appendPath(path []string, segment string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)

	return append(next, segment)
}

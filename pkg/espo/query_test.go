package espo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

const isTrueQuery = "offset=0&where%5B0%5D%5Btype%5D=isTrue&where%5B0%5D%5Battribute%5D=exampleBoolean"

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *espo.Params
		expected string
	}{
		{
			name:     "nil params",
			params:   nil,
			expected: "",
		},
		{
			name:     "empty params",
			params:   espo.NewParams(),
			expected: "",
		},
		{
			name:     "condition without value",
			params:   espo.NewParams().WithOffset(0).WithWhere(espo.NewWhere(espo.IsTrue, "exampleBoolean")),
			expected: isTrueQuery,
		},
		{
			name: "condition with string value",
			params: espo.NewParams().WithOffset(0).
				WithWhere(espo.NewWhere(espo.IsTrue, "exampleBoolean", espo.String("a"))),
			expected: isTrueQuery + "&where%5B0%5D%5Bvalue%5D=a",
		},
		{
			name: "condition with array value",
			params: espo.NewParams().WithOffset(0).
				WithWhere(espo.NewWhere(espo.IsTrue, "exampleBoolean", espo.Strings("a", "b", "c"))),
			expected: isTrueQuery +
				"&where%5B0%5D%5Bvalue%5D%5B0%5D=a&where%5B0%5D%5Bvalue%5D%5B1%5D=b&where%5B0%5D%5Bvalue%5D%5B2%5D=c",
		},
		{
			name: "integer and boolean values",
			params: espo.NewParams().WithWhere(
				espo.NewWhere(espo.GreaterThan, "amount", espo.Int(-5)),
				espo.NewWhere(espo.Equals, "active", espo.Bool(false)),
			),
			expected: "where%5B0%5D%5Btype%5D=greaterThan&where%5B0%5D%5Battribute%5D=amount&where%5B0%5D%5Bvalue%5D=-5" +
				"&where%5B1%5D%5Btype%5D=equals&where%5B1%5D%5Battribute%5D=active&where%5B1%5D%5Bvalue%5D=false",
		},
		{
			name:     "spaces encode as %20",
			params:   espo.NewParams().WithWhere(espo.NewWhere(espo.Equals, "name", espo.String("John Smith"))),
			expected: "where%5B0%5D%5Btype%5D=equals&where%5B0%5D%5Battribute%5D=name&where%5B0%5D%5Bvalue%5D=John%20Smith",
		},
		{
			name:     "reserved and non-ASCII characters",
			params:   espo.NewParams().WithPrimaryFilter("a&b=c+d").WithOrderBy("ü"),
			expected: "orderBy=%C3%BC&primaryFilter=a%26b%3Dc%2Bd",
		},
		{
			name:     "bool filter list",
			params:   espo.NewParams().WithBoolFilter("onlyMy", "followed"),
			expected: "boolFilterList%5B0%5D=onlyMy&boolFilterList%5B1%5D=followed",
		},
		{
			name:     "empty array value emits nothing",
			params:   espo.NewParams().WithWhere(espo.NewWhere(espo.In, "status", espo.Strings())),
			expected: "where%5B0%5D%5Btype%5D=in&where%5B0%5D%5Battribute%5D=status",
		},
		{
			name: "nested group",
			params: espo.NewParams().WithWhere(espo.Group(espo.Or,
				espo.NewWhere(espo.Equals, "a", espo.String("x")),
				espo.NewWhere(espo.IsNull, "b"),
			)),
			expected: "where%5B0%5D%5Btype%5D=or" +
				"&where%5B0%5D%5Bvalue%5D%5B0%5D%5Btype%5D=equals" +
				"&where%5B0%5D%5Bvalue%5D%5B0%5D%5Battribute%5D=a" +
				"&where%5B0%5D%5Bvalue%5D%5B0%5D%5Bvalue%5D=x" +
				"&where%5B0%5D%5Bvalue%5D%5B1%5D%5Btype%5D=isNull" +
				"&where%5B0%5D%5Bvalue%5D%5B1%5D%5Battribute%5D=b",
		},
		{
			name: "object value",
			params: espo.NewParams().WithWhere(espo.NewWhere(espo.Equals, "address",
				espo.Object(espo.Field{Key: "city", Value: espo.String("Oslo")}))),
			expected: "where%5B0%5D%5Btype%5D=equals&where%5B0%5D%5Battribute%5D=address&where%5B0%5D%5Bvalue%5D%5Bcity%5D=Oslo",
		},
		{
			name: "all fields in fixed order",
			params: espo.NewParams().
				WithWhere(espo.NewWhere(espo.IsNotNull, "email")).
				WithPrimaryFilter("active").
				WithMaxSize(20).
				WithBoolFilter("onlyMy").
				WithOffset(10).
				WithOrder(espo.OrderAsc).
				WithOrderBy("createdAt").
				WithSelect("name", "id"),
			expected: "select=name%2Cid&orderBy=createdAt&order=asc&offset=10&boolFilterList%5B0%5D=onlyMy" +
				"&maxSize=20&primaryFilter=active&where%5B0%5D%5Btype%5D=isNotNull&where%5B0%5D%5Battribute%5D=email",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			query, err := espo.Serialize(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
		})
	}
}

func TestSerialize_OffsetAndOrderSegments(t *testing.T) {
	t.Parallel()

	query, err := espo.NewParams().WithOffset(0).WithOrder(espo.OrderDesc).Encode()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"order=desc", "offset=0"}, strings.Split(query, "&"))
}

func TestSerialize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params *espo.Params
		cause  error
	}{
		{
			name:   "invalid UTF-8 value",
			params: espo.NewParams().WithWhere(espo.NewWhere(espo.Equals, "name", espo.String("bad\xff"))),
			cause:  espo.ErrInvalidUTF8,
		},
		{
			name: "invalid UTF-8 key",
			params: espo.NewParams().WithWhere(espo.NewWhere(espo.Equals, "address",
				espo.Object(espo.Field{Key: "bad\xfe", Value: espo.String("x")}))),
			cause: espo.ErrInvalidUTF8,
		},
		{
			name:   "unknown filter type",
			params: espo.NewParams().WithOffset(5).WithWhere(espo.NewWhere(espo.FilterType(999), "name")),
			cause:  espo.ErrUnknownFilterType,
		},
		{
			name:   "unknown order",
			params: espo.NewParams().WithOrder(espo.Order(9)),
			cause:  espo.ErrUnknownOrder,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			query, err := espo.Serialize(tt.params)
			require.Error(t, err)
			assert.Empty(t, query)
			assert.True(t, espo.IsEncodingError(err))
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	t.Parallel()

	params := espo.NewParams().
		WithWhere(espo.NewWhere(espo.In, "status", espo.Strings("New", "Assigned"))).
		WithMaxSize(5)

	first, err := espo.Serialize(params)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := espo.Serialize(params)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBracketPath(t *testing.T) {
	t.Parallel()

	assert.Empty(t, espo.BracketPath())
	assert.Equal(t, "where", espo.BracketPath("where"))
	assert.Equal(t, "where[0][value][1]", espo.BracketPath("where", "0", "value", "1"))
}

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	query, err := espo.EncodeValue(espo.Strings("a", "b"), "value")
	require.NoError(t, err)
	assert.Equal(t, "value%5B0%5D=a&value%5B1%5D=b", query)

	query, err = espo.EncodeValue(espo.Bool(true), "flag")
	require.NoError(t, err)
	assert.Equal(t, "flag=true", query)

	query, err = espo.EncodeValue(espo.Value{}, "absent")
	require.NoError(t, err)
	assert.Empty(t, query)
}

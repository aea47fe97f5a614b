package espo_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

func TestParams_Builders(t *testing.T) {
	t.Parallel()

	params := espo.NewParams().
		WithOffset(5).
		WithMaxSize(50).
		WithSelect("id", "name").
		WithOrder(espo.OrderDesc).
		WithOrderBy("name").
		WithPrimaryFilter("active").
		WithBoolFilter("onlyMy").
		WithBoolFilter("followed").
		WithWhere(espo.NewWhere(espo.IsTrue, "isActive")).
		WithWhere(espo.NewWhere(espo.IsNull, "deletedAt"))

	require.NotNil(t, params.Offset)
	assert.Equal(t, int64(5), *params.Offset)
	assert.Equal(t, int64(50), *params.MaxSize)
	assert.Equal(t, "id,name", *params.Select)
	assert.Equal(t, espo.OrderDesc, *params.Order)
	assert.Equal(t, "name", *params.OrderBy)
	assert.Equal(t, "active", *params.PrimaryFilter)
	assert.Equal(t, []string{"onlyMy", "followed"}, params.BoolFilterList)
	assert.Len(t, params.Where, 2)
	assert.False(t, params.IsEmpty())
	assert.True(t, espo.NewParams().IsEmpty())
}

func TestParams_Clone(t *testing.T) {
	t.Parallel()

	original := espo.NewParams().WithOffset(1).WithBoolFilter("onlyMy")
	clone := original.Clone()

	*clone.Offset = 99
	clone.BoolFilterList[0] = "changed"
	clone.WithWhere(espo.NewWhere(espo.IsTrue, "x"))

	assert.Equal(t, int64(1), *original.Offset)
	assert.Equal(t, []string{"onlyMy"}, original.BoolFilterList)
	assert.Empty(t, original.Where)

	var nilParams *espo.Params
	assert.Nil(t, nilParams.Clone())
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  *espo.Params
		wantErr bool
	}{
		{name: "nil", params: nil},
		{name: "empty", params: espo.NewParams()},
		{name: "zero offset", params: espo.NewParams().WithOffset(0).WithMaxSize(0)},
		{name: "negative offset", params: espo.NewParams().WithOffset(-1)},
		{name: "negative max size", params: espo.NewParams().WithMaxSize(-10)},
		{name: "unknown order", params: espo.NewParams().WithOrder(espo.Order(7)), wantErr: true},
		{
			name:    "missing attribute",
			params:  espo.NewParams().WithWhere(espo.NewWhere(espo.Equals, "", espo.String("x"))),
			wantErr: true,
		},
		{
			name:    "unknown filter type",
			params:  espo.NewParams().WithWhere(espo.NewWhere(espo.FilterType(0), "name")),
			wantErr: true,
		},
		{
			name:   "group without attribute",
			params: espo.NewParams().WithWhere(espo.Group(espo.And, espo.NewWhere(espo.IsTrue, "a"))),
		},
		{
			name: "invalid nested condition",
			params: espo.NewParams().WithWhere(espo.Group(espo.Or,
				espo.NewWhere(espo.IsTrue, "a"),
				espo.NewWhere(espo.IsTrue, ""),
			)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "asc", espo.OrderAsc.Token())
	assert.Equal(t, "desc", espo.OrderDesc.String())

	order, err := espo.ParseOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, espo.OrderDesc, order)

	_, err = espo.ParseOrder("sideways")
	require.ErrorIs(t, err, espo.ErrUnknownOrder)
}

func TestWhere_MarshalJSON(t *testing.T) {
	t.Parallel()

	where := espo.Group(espo.Or,
		espo.NewWhere(espo.In, "status", espo.Strings("New", "Assigned")),
		espo.NewWhere(espo.IsNull, "assignedUserId"),
	)

	data, err := json.Marshal(where)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "or",
		"value": [
			{"type": "in", "attribute": "status", "value": ["New", "Assigned"]},
			{"type": "isNull", "attribute": "assignedUserId"}
		]
	}`, string(data))

	assert.Len(t, where.Conditions(), 2)
	assert.True(t, where.HasValue())
	assert.False(t, espo.NewWhere(espo.IsTrue, "a").HasValue())
}

func TestGroup_Empty(t *testing.T) {
	t.Parallel()

	where := espo.Group(espo.And)
	require.NoError(t, where.Validate())

	data, err := json.Marshal(where)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"and","value":[]}`, string(data))
}

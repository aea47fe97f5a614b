package espo_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// MockClient implements espo.Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Request(ctx context.Context, method espo.Method, action string, params *espo.Params, payload interface{}) (*espo.Response, error) {
	args := m.Called(ctx, method, action, params, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*espo.Response), args.Error(1)
}

func (m *MockClient) Get(ctx context.Context, action string, params *espo.Params) (*espo.Response, error) {
	return m.Request(ctx, espo.MethodGet, action, params, nil)
}

func (m *MockClient) Post(ctx context.Context, action string, payload interface{}) (*espo.Response, error) {
	return m.Request(ctx, espo.MethodPost, action, nil, payload)
}

func (m *MockClient) Put(ctx context.Context, action string, payload interface{}) (*espo.Response, error) {
	return m.Request(ctx, espo.MethodPut, action, nil, payload)
}

func (m *MockClient) Delete(ctx context.Context, action string, payload interface{}) (*espo.Response, error) {
	return m.Request(ctx, espo.MethodDelete, action, nil, payload)
}

func (m *MockClient) NormalizeURL(action string) string {
	return "https://crm.example.com/api/v1/" + action
}

func TestBatchExecutor_Execute(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	params := espo.NewParams().WithMaxSize(1)
	payload := map[string]string{"name": "Ann"}
	errUnreachable := errors.New("unreachable")

	client.On("Request", mock.Anything, espo.MethodGet, "Contact", params, nil).
		Return(&espo.Response{StatusCode: http.StatusOK, Body: []byte(`{"total":0,"list":[]}`)}, nil)
	client.On("Request", mock.Anything, espo.MethodPost, "Contact", (*espo.Params)(nil), payload).
		Return(&espo.Response{StatusCode: http.StatusBadRequest}, nil)
	client.On("Request", mock.Anything, espo.MethodDelete, "Contact/1", (*espo.Params)(nil), nil).
		Return(nil, errUnreachable)

	var (
		mu        sync.Mutex
		callbacks []string
	)

	operations := espo.NewBatchBuilder().
		AddGet("list", "Contact", params).
		WithCallback(func(result *espo.BatchResult) {
			mu.Lock()
			defer mu.Unlock()

			callbacks = append(callbacks, result.ID)
		}).
		AddPost("create", "Contact", payload).
		AddDelete("remove", "Contact/1").
		Build()

	executor := espo.NewBatchExecutor(client, 2)
	executor.SetTimeout(time.Second)

	results, err := executor.Execute(context.Background(), operations)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "list", results[0].ID)
	assert.True(t, results[0].Success)
	assert.NoError(t, results[0].Error)

	assert.Equal(t, "create", results[1].ID)
	assert.False(t, results[1].Success)
	assert.Equal(t, http.StatusBadRequest, results[1].Response.StatusCode)

	assert.Equal(t, "remove", results[2].ID)
	assert.False(t, results[2].Success)
	assert.ErrorIs(t, results[2].Error, errUnreachable)
	assert.Nil(t, results[2].Response)

	assert.Equal(t, []string{"list"}, callbacks)
	client.AssertExpectations(t)
}

func TestBatchExecutor_PerOperationTimeout(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	client.On("Request", mock.Anything, espo.MethodGet, "Contact", (*espo.Params)(nil), nil).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		}).
		Return(&espo.Response{StatusCode: http.StatusOK}, nil)

	executor := espo.NewBatchExecutor(client, 0)
	executor.SetTimeout(50 * time.Millisecond)

	results, err := executor.Execute(context.Background(), espo.NewBatchBuilder().AddGet("one", "Contact", nil).Build())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestBatchExecutor_Empty(t *testing.T) {
	t.Parallel()

	results, err := espo.NewBatchExecutor(&MockClient{}, 3).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

package espo

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
)

// BatchOperation represents a single request in a batch.
type BatchOperation struct {
	ID       string
	Method   Method
	Action   string
	Params   *Params
	Payload  interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation. Success is true
// when the request completed with a 2xx status.
type BatchResult struct {
	ID       string
	Success  bool
	Response *Response
	Error    error
	Duration time.Duration
}

// BatchExecutor executes batch operations over one shared client.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor. A non-positive concurrency
// uses the default limit.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in input order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	resp, err := b.client.Request(ctx, operation.Method, operation.Action, operation.Params, operation.Payload)
	result.Response = resp
	result.Error = err
	result.Success = err == nil && resp != nil && resp.IsSuccess()

	return result
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddGet adds a GET operation.
func (b *BatchBuilder) AddGet(id, action string, params *Params) *BatchBuilder {
	return b.add(BatchOperation{ID: id, Method: MethodGet, Action: action, Params: params})
}

// AddPost adds a POST operation.
func (b *BatchBuilder) AddPost(id, action string, payload interface{}) *BatchBuilder {
	return b.add(BatchOperation{ID: id, Method: MethodPost, Action: action, Payload: payload})
}

// AddPut adds a PUT operation.
func (b *BatchBuilder) AddPut(id, action string, payload interface{}) *BatchBuilder {
	return b.add(BatchOperation{ID: id, Method: MethodPut, Action: action, Payload: payload})
}

// AddDelete adds a DELETE operation.
func (b *BatchBuilder) AddDelete(id, action string) *BatchBuilder {
	return b.add(BatchOperation{ID: id, Method: MethodDelete, Action: action})
}

// WithCallback sets the callback of the most recently added operation.
func (b *BatchBuilder) WithCallback(callback func(result *BatchResult)) *BatchBuilder {
	if len(b.operations) > 0 {
		b.operations[len(b.operations)-1].Callback = callback
	}

	return b
}

// Build returns the operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return append([]BatchOperation(nil), b.operations...)
}

func (b *BatchBuilder) add(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

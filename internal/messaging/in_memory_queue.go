package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ai-engine/internal/engine"
	"ai-engine/pkg/api"
)

type reply struct {
	data []byte
	err  error
}

type inMemoryTask struct {
	operation string
	payload   []byte
	replies   chan reply
}

func (t *inMemoryTask) Type() string {
	return t.operation
}

func (t *inMemoryTask) Payload() []byte {
	return t.payload
}

func (t *inMemoryTask) Reply(ctx context.Context, data []byte, err error) error {
	select {
	case t.replies <- reply{data: data, err: err}:
		return nil
	default:
		return fmt.Errorf("task '%s' was already answered", t.operation)
	}
}

func (t *inMemoryTask) Ack() error {
	return nil
}

func (t *inMemoryTask) Nack() error {
	return nil
}

// InMemoryQueue connects callers and a Worker in the same process. It is both
// the Reciever the worker reads from and the engine.Invoker callers use.
type InMemoryQueue struct {
	mu     sync.RWMutex
	tasks  chan Task
	closed bool
}

var (
	_ Reciever       = (*InMemoryQueue)(nil)
	_ engine.Invoker = (*InMemoryQueue)(nil)
)

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		tasks: make(chan Task, 100),
	}
}

func (q *InMemoryQueue) submit(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	task := &inMemoryTask{operation: operation, payload: payload, replies: make(chan reply, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return nil, fmt.Errorf("queue is closed")
	}
	select {
	case q.tasks <- task:
		q.mu.RUnlock()
	case <-ctx.Done():
		q.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case r := <-task.replies:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *InMemoryQueue) Invoke(ctx context.Context, operation string, data []byte) ([]byte, error) {
	return q.submit(ctx, operation, data)
}

func (q *InMemoryQueue) ListOperations(ctx context.Context) ([]string, error) {
	data, err := q.submit(ctx, ListOperationsType, nil)
	if err != nil {
		return nil, err
	}
	var res api.ListOperationsResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("error parsing list operations reply: %w", err)
	}
	return res.Operations, nil
}

func (q *InMemoryQueue) Tasks() <-chan Task {
	return q.tasks
}

func (q *InMemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
}

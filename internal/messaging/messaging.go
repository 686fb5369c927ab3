package messaging

import (
	"context"
	"time"
)

const (
	DefaultEngineQueue = "ai-engine"

	// ListOperationsType is the task type that asks a worker for the
	// operations its engine supports.
	ListOperationsType = "listOperations"

	ErrorKindHeader = "x-error-kind"
	ErrorHeader     = "x-error"

	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

// Task is a single engine request. Type is the operation name and Payload its
// JSON request.
type Task interface {
	Type() string
	Payload() []byte
	// Reply sends the result back to the caller, if it is waiting for one.
	Reply(ctx context.Context, data []byte, err error) error
	Ack() error
	Nack() error
}

type Reciever interface {
	Tasks() <-chan Task
	Close()
}

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"ai-engine/internal/engine"
	"ai-engine/pkg/api"
)

// Worker serves engine requests read from a Reciever.
type Worker struct {
	invoker     engine.Invoker
	reciever    Reciever
	concurrency int
}

func NewWorker(invoker engine.Invoker, reciever Reciever, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
		slog.Info("worker concurrency not specified, defaulting to number of cpus", "concurrency", concurrency)
	}
	return &Worker{invoker: invoker, reciever: reciever, concurrency: concurrency}
}

// Run processes tasks until the reciever's task channel is closed or ctx is
// done.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("starting worker", "concurrency", w.concurrency)

	wg := sync.WaitGroup{}
	wg.Add(w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case task, ok := <-w.reciever.Tasks():
					if !ok {
						return
					}
					w.handle(ctx, task)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()

	slog.Info("worker stopped")
}

func (w *Worker) execute(ctx context.Context, task Task) ([]byte, error) {
	if task.Type() == ListOperationsType {
		ops, err := w.invoker.ListOperations(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(api.ListOperationsResponse{Operations: ops})
		if err != nil {
			return nil, fmt.Errorf("error serializing operations: %w", err)
		}
		return data, nil
	}
	return w.invoker.Invoke(ctx, task.Type(), task.Payload())
}

func (w *Worker) handle(ctx context.Context, task Task) {
	data, err := w.execute(ctx, task)
	if err != nil {
		slog.Error("engine operation failed", "operation", task.Type(), "kind", engine.ErrorKind(err), "error", err)
	}

	if err := task.Reply(ctx, data, err); err != nil {
		slog.Error("error sending reply", "operation", task.Type(), "error", err)
		if err := task.Nack(); err != nil {
			slog.Error("error nacking task", "operation", task.Type(), "error", err)
		}
		return
	}

	if err := task.Ack(); err != nil {
		slog.Error("error acking task", "operation", task.Type(), "error", err)
	}
}

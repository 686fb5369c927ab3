package utils

import (
	"context"
	"sync"
)

type CompletedTask[T any] struct {
	Result T
	Error  error
}

// RunInPool runs worker over inputs with at most maxWorkers goroutines and
// returns the results in input order. Inputs not yet started when ctx is done
// complete with ctx's error.
func RunInPool[In any, Out any](ctx context.Context, worker func(context.Context, In) (Out, error), inputs []In, maxWorkers int) []CompletedTask[Out] {
	completed := make([]CompletedTask[Out], len(inputs))
	if len(inputs) == 0 {
		return completed
	}

	workers := min(len(inputs), max(maxWorkers, 1))

	queue := make(chan int, len(inputs))
	for i := range inputs {
		queue <- i
	}
	close(queue)

	wg := sync.WaitGroup{}
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			for next := range queue {
				if err := ctx.Err(); err != nil {
					completed[next] = CompletedTask[Out]{Error: err}
					continue
				}

				res, err := worker(ctx, inputs[next])
				completed[next] = CompletedTask[Out]{Result: res, Error: err}
			}
		}()
	}

	wg.Wait()

	return completed
}

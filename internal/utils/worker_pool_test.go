package utils_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ai-engine/internal/utils"
)

func TestRunInPool(t *testing.T) {
	worker := func(ctx context.Context, i int) (string, error) {
		if i%4 == 3 {
			time.Sleep(time.Duration(10-i) * time.Millisecond)
			return "", fmt.Errorf("error")
		}
		return fmt.Sprintf("%d-%d", i, i), nil
	}

	inputs := make([]int, 10)
	for i := range inputs {
		inputs[i] = i
	}

	results := utils.RunInPool(context.Background(), worker, inputs, 5)

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}

	success, errs := 0, 0
	for i, result := range results {
		if result.Error != nil {
			errs++
			continue
		}
		success++
		if result.Result != fmt.Sprintf("%d-%d", i, i) {
			t.Errorf("result %d out of order: %s", i, result.Result)
		}
	}

	if success != 8 || errs != 2 {
		t.Fatal("invalid results")
	}
}

func TestRunInPool_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32

	worker := func(ctx context.Context, i int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return i, nil
	}

	utils.RunInPool(context.Background(), worker, make([]int, 20), 3)

	if peak.Load() > 3 {
		t.Fatalf("expected at most 3 concurrent workers, saw %d", peak.Load())
	}
}

func TestRunInPool_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := utils.RunInPool(ctx, func(ctx context.Context, i int) (int, error) {
		called = true
		return i, nil
	}, []int{1, 2, 3}, 2)

	if called {
		t.Fatal("worker should not run after cancellation")
	}
	for _, r := range results {
		if !errors.Is(r.Error, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", r.Error)
		}
	}
}

func TestRunInPool_Empty(t *testing.T) {
	results := utils.RunInPool(context.Background(), func(ctx context.Context, i int) (int, error) {
		return i, nil
	}, nil, 4)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

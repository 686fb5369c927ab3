package utils_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"ai-engine/internal/utils"
)

const sleepDuration = 200 * time.Millisecond

func lockAndSleep(t *testing.T, m *utils.MutexMap, key string, wait chan bool) {
	slog.Info("routine started", "key", key)
	if err := m.Lock(context.Background(), key); err != nil {
		t.Errorf("Error locking key: %v", err)
	}

	time.Sleep(sleepDuration)
	if err := m.Unlock(key); err != nil {
		t.Errorf("Error unlocking key: %v", err)
	}
	wait <- true
}

func TestMutexMap_RunSequentiallyWhenSameKey(t *testing.T) {
	m := utils.NewMutexMap(10)

	wait1 := make(chan bool)
	wait2 := make(chan bool)

	start := time.Now()
	go lockAndSleep(t, m, "test", wait1)
	go lockAndSleep(t, m, "test", wait2)

	<-wait1
	<-wait2

	elapsed := time.Since(start)
	if elapsed < 2*sleepDuration {
		t.Errorf("Routines are not running sequentially, expected > %v elapsed, got %v", 2*sleepDuration, elapsed)
	}

	if m.Size() != 0 {
		t.Errorf("Expected no keys to remain after unlock, got %d", m.Size())
	}
}

func TestMutexMap_RunConcurrentlyWhenDifferentKeys(t *testing.T) {
	m := utils.NewMutexMap(10)

	wait1 := make(chan bool)
	wait2 := make(chan bool)

	start := time.Now()
	go lockAndSleep(t, m, "key1", wait1)
	go lockAndSleep(t, m, "key2", wait2)

	<-wait1
	<-wait2

	elapsed := time.Since(start)
	if elapsed > sleepDuration*3/2 {
		t.Errorf("Routines are not running concurrently, expected around %v elapsed, got %v", sleepDuration, elapsed)
	}
}

func TestMutexMap_LockHonorsContext(t *testing.T) {
	m := utils.NewMutexMap(10)

	if err := m.Lock(context.Background(), "busy"); err != nil {
		t.Fatalf("Error locking key: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := m.Lock(ctx, "busy")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}

	if err := m.Unlock("busy"); err != nil {
		t.Fatalf("Error unlocking key: %v", err)
	}
	if m.Size() != 0 {
		t.Errorf("Expected no keys to remain, got %d", m.Size())
	}
}

func TestMutexMap_ErrorWhenMaxSizeReached(t *testing.T) {
	m := utils.NewMutexMap(1)

	if err := m.Lock(context.Background(), "test1"); err != nil {
		t.Errorf("Error locking key1: %v", err)
	}

	if err := m.Lock(context.Background(), "test2"); !errors.Is(err, utils.ErrMaxKeys) {
		t.Errorf("Expected error when max size reached, got %v", err)
	}
}

func TestMutexMap_UnlockErrorWhenKeyNotFound(t *testing.T) {
	m := utils.NewMutexMap(10)

	if err := m.Unlock("test"); err == nil {
		t.Errorf("Expected error when unlocking key not found, got nil")
	}
}

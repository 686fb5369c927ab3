package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrMaxKeys = errors.New("max number of locked keys reached")

type keyLock struct {
	sem     chan struct{}
	waiters int
}

// MutexMap hands out one lock per key. Entries are dropped once nobody holds
// or waits on them, so the map only grows with the number of keys in use.
type MutexMap struct {
	edit    sync.Mutex
	locks   map[string]*keyLock
	maxSize int
}

func NewMutexMap(maxSize int) *MutexMap {
	return &MutexMap{
		locks:   make(map[string]*keyLock),
		maxSize: maxSize,
	}
}

// Lock blocks until the key is free or ctx is done.
func (m *MutexMap) Lock(ctx context.Context, key string) error {
	m.edit.Lock()
	lock := m.locks[key]
	if lock == nil {
		if m.maxSize > 0 && len(m.locks) >= m.maxSize {
			m.edit.Unlock()
			return ErrMaxKeys
		}
		lock = &keyLock{sem: make(chan struct{}, 1)}
		m.locks[key] = lock
	}
	lock.waiters++
	m.edit.Unlock()

	select {
	case lock.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.release(key, lock)
		return ctx.Err()
	}
}

func (m *MutexMap) Unlock(key string) error {
	m.edit.Lock()
	lock := m.locks[key]
	m.edit.Unlock()

	if lock == nil {
		return fmt.Errorf("key %s not found", key)
	}

	select {
	case <-lock.sem:
	default:
		return fmt.Errorf("key %s is not locked", key)
	}

	m.release(key, lock)
	return nil
}

func (m *MutexMap) release(key string, lock *keyLock) {
	m.edit.Lock()
	defer m.edit.Unlock()

	lock.waiters--
	if lock.waiters == 0 {
		delete(m.locks, key)
	}
}

func (m *MutexMap) Size() int {
	m.edit.Lock()
	defer m.edit.Unlock()
	return len(m.locks)
}

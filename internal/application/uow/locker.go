package uow

import (
	"context"
	"sort"
	"sync"
)

// KeyedLocker serializes work per key (a customer id, a stock item). Lock
// blocks until the key is free or ctx is done and returns the function that
// releases it.
type KeyedLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// CustomerKey is the lock key of a customer balance
func CustomerKey(id string) string {
	return "customer:" + id
}

// StockKey is the lock key of an item's stock running total
func StockKey(itemName string) string {
	return "stock:" + itemName
}

// LockAll takes every key in sorted order, so two callers that need
// overlapping keys cannot deadlock. Duplicate keys are taken once.
func LockAll(ctx context.Context, locker KeyedLocker, keys ...string) (func(), error) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	unlocks := make([]func(), 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, k := range sorted {
		unlock, err := locker.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// MemoryLocker is a process-local KeyedLocker. Entries are removed once no
// goroutine holds or waits for the key.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker creates a MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

// Lock acquires key
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}

func (l *MemoryLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// size returns the number of tracked keys
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

var _ KeyedLocker = (*MemoryLocker)(nil)

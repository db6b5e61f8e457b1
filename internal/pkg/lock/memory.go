package lock

import (
	"context"
	"sync"
)

// MemoryLocker is a keyed mutex. Waiters honour ctx, and idle keys are dropped.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

func (l *MemoryLocker) Backend() string { return "memory" }

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return &memoryLock{owner: l, key: key, slot: s}, nil
	case <-ctx.Done():
		l.unref(key, s)
		return nil, ctx.Err()
	}
}

func (l *MemoryLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// held reports the number of keys with a holder or waiter.
func (l *MemoryLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

type memoryLock struct {
	owner *MemoryLocker
	key   string
	slot  *slot
	once  sync.Once
}

func (m *memoryLock) Release(context.Context) error {
	released := false
	m.once.Do(func() {
		<-m.slot.ch
		m.owner.unref(m.key, m.slot)
		released = true
	})
	if !released {
		return ErrNotOwned
	}
	return nil
}

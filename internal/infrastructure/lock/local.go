package lock

import (
	"context"
	"sync"

	"dog-grooming-booking/internal/domain/booking"
)

// LocalLocker serializes owners within a single process. It does not
// protect against other replicas; use the mongo or redis locker for that.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// slot is dropped from the map once no holder or waiter references it.
type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

func (l *LocalLocker) Acquire(ctx context.Context, ownerID string) (func(), error) {
	s := l.ref(ownerID)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(ownerID, s)
		return nil, booking.ErrLockNotAcquired
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(ownerID, s)
		})
	}, nil
}

func (l *LocalLocker) ref(ownerID string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[ownerID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[ownerID] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(ownerID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, ownerID)
	}
}

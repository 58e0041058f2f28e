package progress

import (
	"context"
	"strconv"
	"sync"
)

// keyLock serializes operations per key. A second caller on a busy key
// waits for the first to finish; callers on other keys never block.
type keyLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[string]chan struct{})}
}

func (k *keyLock) Lock(ctx context.Context, key string) (func(), error) {
	for {
		k.mu.Lock()
		busy, ok := k.slots[key]
		if !ok {
			done := make(chan struct{})
			k.slots[key] = done
			k.mu.Unlock()

			return func() {
				k.mu.Lock()
				delete(k.slots, key)
				k.mu.Unlock()
				close(done)
			}, nil
		}
		k.mu.Unlock()

		select {
		case <-busy:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Busy reports whether an operation currently holds key.
func (k *keyLock) Busy(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.slots[key]
	return ok
}

func opKey(goalID int64, date string) string {
	return strconv.FormatInt(goalID, 10) + ":" + date
}

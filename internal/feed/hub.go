package feed

import (
	"context"
	"sync"
	"time"

	"github.com/lifedash/questlog/internal/model"
)

const defaultBuffer = 16

// Hub fans out activities to live subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses the activity.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan model.Activity]struct{}
	now  func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan model.Activity]struct{}),
		now:  time.Now,
	}
}

func (h *Hub) Publish(a model.Activity) {
	if h == nil {
		return
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = h.now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- a:
		default:
		}
	}
}

// Subscribe registers a listener until ctx is done, at which point the
// returned channel is closed.
func (h *Hub) Subscribe(ctx context.Context, buffer int) <-chan model.Activity {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan model.Activity, buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

package channel_utils

import (
	"sync"

	"verse-scene-api/application/ports/outbound"
)

const subscriberBuffer = 16

// Broadcaster fans a single source channel out to any number of
// subscribers. The pipeline publishes its stage events on one channel;
// every SSE client gets an independent subscription. Sends to a slow
// subscriber are dropped instead of stalling the source. When the source
// closes, every subscriber channel is closed.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[chan T]struct{}
	closed bool
}

// NewBroadcaster starts pumping the source on the worker pool. onClose, if
// non-nil, runs exactly once after the source has closed and every
// subscriber has been released, whether or not anyone is still subscribed;
// owners use it to drop their handle on the broadcaster.
func NewBroadcaster[T any](workerPool outbound.TaskDispatcher, source <-chan T, onClose func()) (*Broadcaster[T], error) {
	b := &Broadcaster[T]{
		subs: make(map[chan T]struct{}),
	}

	err := workerPool.Submit(func() {
		for value := range source {
			b.publish(value)
		}
		b.closeAll()
		if onClose != nil {
			onClose()
		}
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Subscribe registers a new subscriber. The returned channel is closed when
// the source closes or the subscriber is unsubscribed.
func (b *Broadcaster[T]) Subscribe() <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan T, subscriberBuffer)
	if b.closed {
		close(sub)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

func (b *Broadcaster[T]) Unsubscribe(ch <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		if (<-chan T)(sub) == ch {
			delete(b.subs, sub)
			close(sub)
			return
		}
	}
}

func (b *Broadcaster[T]) publish(value T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		select {
		case sub <- value:
		default:
		}
	}
}

func (b *Broadcaster[T]) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

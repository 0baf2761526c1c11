package channel_utils

import (
	"testing"
	"time"
)

// goDispatcher runs tasks on plain goroutines; the server wires an ants
// pool behind the same interface.
type goDispatcher struct{}

func (goDispatcher) Submit(task func()) error {
	go task()
	return nil
}

func collect(t *testing.T, ch <-chan int, n int) []int {
	t.Helper()
	var out []int
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		case <-timeout:
			t.Fatalf("timed out after %d of %d values", len(out), n)
		}
	}
	return out
}

func TestBroadcastToAllSubscribers(t *testing.T) {
	source := make(chan int)
	b, err := NewBroadcaster(goDispatcher{}, source, nil)
	if err != nil {
		t.Fatalf("NewBroadcaster: %v", err)
	}

	first := b.Subscribe()
	second := b.Subscribe()

	for i := 1; i <= 3; i++ {
		source <- i
	}
	close(source)

	for name, sub := range map[string]<-chan int{"first": first, "second": second} {
		got := collect(t, sub, 3)
		if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
			t.Errorf("%s subscriber: got %v, want [1 2 3]", name, got)
		}
	}
}

func TestSubscriberChannelsCloseWithSource(t *testing.T) {
	source := make(chan int)
	b, err := NewBroadcaster(goDispatcher{}, source, nil)
	if err != nil {
		t.Fatalf("NewBroadcaster: %v", err)
	}
	sub := b.Subscribe()

	close(source)

	select {
	case _, open := <-sub:
		if open {
			t.Error("subscriber channel must close when the source closes")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber channel never closed")
	}

	// Subscribing after close yields an already closed channel.
	late := b.Subscribe()
	if _, open := <-late; open {
		t.Error("late subscription must be closed immediately")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	source := make(chan int)
	b, err := NewBroadcaster(goDispatcher{}, source, nil)
	if err != nil {
		t.Fatalf("NewBroadcaster: %v", err)
	}

	sub := b.Subscribe()
	b.Unsubscribe(sub)

	if _, open := <-sub; open {
		t.Error("unsubscribed channel must be closed")
	}
	close(source)
}

func TestOnCloseRunsWithoutSubscribers(t *testing.T) {
	source := make(chan int)
	released := make(chan struct{})

	_, err := NewBroadcaster(goDispatcher{}, source, func() {
		close(released)
	})
	if err != nil {
		t.Fatalf("NewBroadcaster: %v", err)
	}

	// Nobody ever subscribed; the owner callback must still fire so the
	// broadcaster does not outlive its source.
	close(source)

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("onClose never ran after the source closed")
	}
}

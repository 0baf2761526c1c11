package services

import (
	"bytes"
	"testing"

	"verse-scene-api/domain"
)

func TestAcquireRevokesPrevious(t *testing.T) {
	manager := NewAudioResourceManager(nopLogger{})

	first := manager.Acquire([]byte("first"))
	second := manager.Acquire([]byte("second"))

	if first == second {
		t.Error("handles must be distinct")
	}
	if manager.Count() != 1 {
		t.Errorf("count: got %d, want 1", manager.Count())
	}
	if _, ok := manager.Bytes(first); ok {
		t.Error("first handle must be revoked by the second acquire")
	}
	payload, ok := manager.Bytes(second)
	if !ok || !bytes.Equal(payload, []byte("second")) {
		t.Errorf("second handle payload: got %q, ok=%v", payload, ok)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	manager := NewAudioResourceManager(nopLogger{})

	handle := manager.Acquire([]byte("clip"))
	manager.Release(handle)
	manager.Release(handle)
	manager.Release(domain.ResourceHandle("never-issued"))
	manager.Release("")

	if manager.Count() != 0 {
		t.Errorf("count after releases: got %d, want 0", manager.Count())
	}
}

func TestReleaseUnknownKeepsCurrent(t *testing.T) {
	manager := NewAudioResourceManager(nopLogger{})

	handle := manager.Acquire([]byte("clip"))
	manager.Release(domain.ResourceHandle("someone-else"))

	if manager.Count() != 1 {
		t.Errorf("count: got %d, want 1", manager.Count())
	}
	if _, ok := manager.Bytes(handle); !ok {
		t.Error("current handle must survive a foreign release")
	}
}

func TestReleaseAll(t *testing.T) {
	manager := NewAudioResourceManager(nopLogger{})

	manager.Acquire([]byte("clip"))
	manager.ReleaseAll()
	manager.ReleaseAll()

	if manager.Count() != 0 {
		t.Errorf("count: got %d, want 0", manager.Count())
	}
}

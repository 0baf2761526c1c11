package services

import (
	"sync"

	"github.com/google/uuid"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/domain"
)

// audioResourceManager keeps at most one playable audio resource alive.
// Acquiring a new handle revokes the previous one, and ReleaseAll on
// teardown guarantees nothing leaks past the owning orchestrator.
type audioResourceManager struct {
	mu      sync.Mutex
	logger  outbound.LoggerPort
	handle  domain.ResourceHandle
	payload []byte
}

func NewAudioResourceManager(logger outbound.LoggerPort) outbound.AudioResourcePort {
	return &audioResourceManager{logger: logger}
}

func (m *audioResourceManager) Acquire(data []byte) domain.ResourceHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != "" {
		m.logger.InfoWithFields("revoking previous audio resource", map[string]interface{}{
			"handle": string(m.handle),
		})
		m.dropLocked()
	}

	m.handle = domain.ResourceHandle(uuid.NewString())
	m.payload = data
	return m.handle
}

// Release revokes the given handle. Releasing an unknown or already
// released handle is a no-op.
func (m *audioResourceManager) Release(handle domain.ResourceHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handle == "" || handle != m.handle {
		return
	}
	m.dropLocked()
}

func (m *audioResourceManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropLocked()
}

// Bytes resolves a handle to its playable container bytes.
func (m *audioResourceManager) Bytes(handle domain.ResourceHandle) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handle == "" || handle != m.handle {
		return nil, false
	}
	return m.payload, true
}

func (m *audioResourceManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == "" {
		return 0
	}
	return 1
}

func (m *audioResourceManager) dropLocked() {
	m.handle = ""
	m.payload = nil
}

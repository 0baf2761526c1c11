package outbound

import "verse-scene-api/domain"

// AudioResourcePort tracks the single currently playable audio resource.
// Acquire always revokes the previous handle first, so at most one handle
// is live at any time; Release is idempotent.
type AudioResourcePort interface {
	Acquire(data []byte) domain.ResourceHandle
	Release(handle domain.ResourceHandle)
	ReleaseAll()
	Bytes(handle domain.ResourceHandle) ([]byte, bool)
	Count() int
}

package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"verse-scene-api/application/ports/inbound"
	"verse-scene-api/application/ports/outbound"
)

// OrchestratorFactory builds a fresh orchestrator for a new session.
type OrchestratorFactory func() inbound.SceneOrchestratorPort

// SceneRegistry owns one orchestrator per session. Sessions expire after a
// TTL of inactivity; eviction tears the orchestrator down so no audio
// resource survives its session.
type SceneRegistry struct {
	mu       sync.Mutex
	logger   outbound.LoggerPort
	sessions *gocache.Cache
	factory  OrchestratorFactory
}

func NewSceneRegistry(logger outbound.LoggerPort, factory OrchestratorFactory, ttl time.Duration) *SceneRegistry {
	sessions := gocache.New(ttl, ttl/2)
	sessions.OnEvicted(func(sessionID string, value interface{}) {
		orchestrator, ok := value.(inbound.SceneOrchestratorPort)
		if !ok {
			return
		}
		orchestrator.Close()
		logger.InfoWithFields("session expired", map[string]interface{}{
			"session_id": sessionID,
		})
	})

	return &SceneRegistry{
		logger:   logger,
		sessions: sessions,
		factory:  factory,
	}
}

// Get returns the orchestrator for the session, creating one when the id is
// empty or unknown, and refreshes the session TTL.
func (r *SceneRegistry) Get(sessionID string) (string, inbound.SceneOrchestratorPort) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessionID != "" {
		if value, found := r.sessions.Get(sessionID); found {
			orchestrator := value.(inbound.SceneOrchestratorPort)
			r.sessions.SetDefault(sessionID, orchestrator)
			return sessionID, orchestrator
		}
	}

	sessionID = uuid.NewString()
	orchestrator := r.factory()
	r.sessions.SetDefault(sessionID, orchestrator)
	r.logger.InfoWithFields("session created", map[string]interface{}{
		"session_id": sessionID,
	})
	return sessionID, orchestrator
}

// Drop removes a session immediately, tearing its orchestrator down.
func (r *SceneRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Delete triggers the eviction callback.
	r.sessions.Delete(sessionID)
}

// Shutdown tears down every live session. Called on server exit.
func (r *SceneRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Flush skips the eviction callback, so delete sessions one by one.
	for sessionID := range r.sessions.Items() {
		r.sessions.Delete(sessionID)
	}
}
